package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// DefaultMaskLevel is the luminance above which a pixel of a pre-computed
// edge image counts as an edge.
const DefaultMaskLevel = 127

// MaskFromImage builds an edge mask from an image that already is an edge map
// (for example the output of another detector). A pixel is an edge when its
// BT.601 luminance is strictly greater than level.
func MaskFromImage(img image.Image, level uint8) (*hough.EdgeMask, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty image", hough.ErrInvalidDimensions)
	}

	gray := imaging.Grayscale(img)
	mask := hough.NewEdgeMask(b.Dx(), b.Dy())
	for y := 0; y < mask.Height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+mask.Width*4]
		for x := 0; x < mask.Width; x++ {
			// Transparent pixels never count.
			if row[x*4+3] != 0 && row[x*4] > level {
				mask.Pix[y*mask.Width+x] = true
			}
		}
	}
	return mask, nil
}

// MaskImage renders a mask as a grayscale image with edges at 255.
func MaskImage(mask *hough.EdgeMask) *image.Gray {
	img := image.NewGray(mask.Bounds())
	for i, on := range mask.Pix {
		if on {
			img.Pix[(i/mask.Width)*img.Stride+i%mask.Width] = 255
		}
	}
	return img
}

// GrayBase converts img to a grayscale NRGBA image anchored at (0,0), ready
// to have coloured lines drawn over it.
func GrayBase(img image.Image) *image.NRGBA {
	return imaging.Grayscale(img)
}
