//go:build gocv

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// OpenCVAvailable reports whether this build links OpenCV.
const OpenCVAvailable = true

// Detect runs cv::Canny on img.
func (d *OpenCVDetector) Detect(img image.Image) (*hough.EdgeMask, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", hough.ErrInvalidDimensions)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to mat: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	if d.BlurSize > 0 {
		blurred := gocv.NewMat()
		defer blurred.Close()
		gocv.GaussianBlur(gray, &blurred, image.Pt(d.BlurSize, d.BlurSize), 0, 0, gocv.BorderDefault)
		gray, blurred = blurred, gray
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(d.Low), float32(d.High))

	mask := hough.NewEdgeMask(edges.Cols(), edges.Rows())
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if edges.GetUCharAt(y, x) != 0 {
				mask.Set(x, y, true)
			}
		}
	}
	return mask, nil
}
