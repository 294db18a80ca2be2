package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// Default hysteresis thresholds, on the scale of an L1 Sobel magnitude over
// 8-bit intensities.
const (
	DefaultCannyLow  = 40
	DefaultCannyHigh = 120
)

// ErrInvalidThresholds is returned when a detector's thresholds are out of
// order or negative.
var ErrInvalidThresholds = errors.New("invalid edge thresholds")

// EdgeDetector turns an image into a binary edge mask of the same size.
type EdgeDetector interface {
	Detect(img image.Image) (*hough.EdgeMask, error)
}

// CannyDetector is a pure Go Canny edge detector.
//
// # Algorithm
//
//  1. Grayscale conversion using ITU-R BT.601 weights
//     (0.299*R + 0.587*G + 0.114*B)
//
//  2. Optional Gaussian blur of BlurRadius pixels. Zero disables it.
//
//  3. Gradient computation: 3x3 Sobel operators for X and Y, magnitude
//     |Gx| + |Gy|, borders replicated
//
//  4. Non-maximum suppression: a pixel survives only when it is a local
//     maximum across the gradient direction, quantized to 0°, 45°, 90° or 135°
//
//  5. Hysteresis thresholding:
//     - Pixels above High are strong edges (always kept)
//     - Pixels above Low are weak edges, kept when 8-connected through other
//     weak edges to a strong edge
//     - Everything else is discarded
//
// # Threshold Selection
//
// Lower thresholds detect more edges but increase noise. A clean black/white
// step yields a magnitude of 1020, so the defaults (40, 120) keep faint edges.
type CannyDetector struct {
	Low        int
	High       int
	BlurRadius float64
}

// NewCannyDetector returns a detector with the default thresholds and no blur.
func NewCannyDetector() *CannyDetector {
	return &CannyDetector{Low: DefaultCannyLow, High: DefaultCannyHigh}
}

// Settings reports the detector's parameters.
func (d *CannyDetector) Settings() EdgeSettings {
	return EdgeSettings{Backend: BackendCanny, Low: d.Low, High: d.High, BlurRadius: d.BlurRadius}
}

// Validate checks the thresholds and blur radius.
func (d *CannyDetector) Validate() error {
	if d.Low < 0 || d.High < 0 {
		return fmt.Errorf("%w: thresholds must be non-negative, got low=%d high=%d", ErrInvalidThresholds, d.Low, d.High)
	}
	if d.Low > d.High {
		return fmt.Errorf("%w: low threshold %d exceeds high threshold %d", ErrInvalidThresholds, d.Low, d.High)
	}
	if d.BlurRadius < 0 {
		return fmt.Errorf("%w: blur radius must be non-negative, got %g", ErrInvalidThresholds, d.BlurRadius)
	}
	return nil
}

// Detect runs Canny edge detection on img.
func (d *CannyDetector) Detect(img image.Image) (*hough.EdgeMask, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty image", hough.ErrInvalidDimensions)
	}

	gray := grayPlane(img, d.BlurRadius)
	mag, dir := sobel(gray, width, height)
	thin := suppress(mag, dir, width, height)
	return hysteresis(thin, width, height, float64(d.Low), float64(d.High)), nil
}

// grayPlane returns row-major 8-bit luminance values as float64.
func grayPlane(img image.Image, blurRadius float64) []float64 {
	var src image.Image = imaging.Grayscale(img)
	if blurRadius > 0 {
		src = blur.Gaussian(src, blurRadius)
	}

	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	plane := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			plane[y*width+x] = float64(r >> 8)
		}
	}
	return plane
}

// Gradient direction bins.
const (
	dirHorizontal = iota // gradient along X, edge runs vertically
	dirDiagonal          // gradient along (+1,+1)
	dirVertical          // gradient along Y
	dirAntiDiagonal      // gradient along (+1,-1)
)

var tan22_5 = math.Tan(math.Pi / 8)

// sobel computes L1 gradient magnitudes and quantized directions.
func sobel(plane []float64, width, height int) ([]float64, []uint8) {
	mag := make([]float64, width*height)
	dir := make([]uint8, width*height)
	at := func(x, y int) float64 {
		return plane[clamp(y, 0, height-1)*width+clamp(x, 0, width-1)]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)

			i := y*width + x
			mag[i] = math.Abs(gx) + math.Abs(gy)

			ax, ay := math.Abs(gx), math.Abs(gy)
			switch {
			case ay <= ax*tan22_5:
				dir[i] = dirHorizontal
			case ax <= ay*tan22_5:
				dir[i] = dirVertical
			case (gx > 0) == (gy > 0):
				dir[i] = dirDiagonal
			default:
				dir[i] = dirAntiDiagonal
			}
		}
	}
	return mag, dir
}

// suppress keeps only local maxima across the gradient direction. The
// comparison is strict against the preceding neighbour and non-strict against
// the following one, so a two-pixel-wide plateau thins to a single pixel.
func suppress(mag []float64, dir []uint8, width, height int) []float64 {
	out := make([]float64, len(mag))
	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return mag[y*width+x]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := mag[i]
			if m == 0 {
				continue
			}
			var before, after float64
			switch dir[i] {
			case dirHorizontal:
				before, after = at(x-1, y), at(x+1, y)
			case dirVertical:
				before, after = at(x, y-1), at(x, y+1)
			case dirDiagonal:
				before, after = at(x-1, y-1), at(x+1, y+1)
			case dirAntiDiagonal:
				before, after = at(x-1, y+1), at(x+1, y-1)
			}
			if m > before && m >= after {
				out[i] = m
			}
		}
	}
	return out
}

// hysteresis grows edges from strong pixels through 8-connected weak pixels.
func hysteresis(mag []float64, width, height int, low, high float64) *hough.EdgeMask {
	mask := hough.NewEdgeMask(width, height)
	stack := make([]int, 0, 64)

	for i, m := range mag {
		if m > high && !mask.Pix[i] {
			mask.Pix[i] = true
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if !mask.Pix[j] && mag[j] > low {
					mask.Pix[j] = true
					stack = append(stack, j)
				}
			}
		}
	}
	return mask
}

// clamp constrains val to [lo, hi]. Used for replicated borders.
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
