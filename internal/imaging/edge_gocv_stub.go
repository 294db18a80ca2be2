//go:build !gocv

package imaging

import (
	"image"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// OpenCVAvailable reports whether this build links OpenCV.
const OpenCVAvailable = false

// Detect always fails without the gocv build tag.
func (d *OpenCVDetector) Detect(image.Image) (*hough.EdgeMask, error) {
	return nil, ErrOpenCVUnavailable
}
