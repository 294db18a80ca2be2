package imaging

import (
	"errors"
	"fmt"
)

// ErrOpenCVUnavailable is returned by OpenCVDetector in builds without the
// gocv tag.
var ErrOpenCVUnavailable = errors.New("opencv edge detector not available (build with -tags gocv)")

// OpenCVDetector runs cv::Canny through gocv. Low and High have the same
// meaning as for CannyDetector; BlurSize, when positive and odd, applies an
// OpenCV Gaussian blur with a BlurSize x BlurSize kernel first.
type OpenCVDetector struct {
	Low      int
	High     int
	BlurSize int
}

// NewOpenCVDetector returns a detector with the default thresholds.
func NewOpenCVDetector() *OpenCVDetector {
	return &OpenCVDetector{Low: DefaultCannyLow, High: DefaultCannyHigh}
}

// Settings reports the detector's parameters. The kernel size maps back to
// a radius of (BlurSize-1)/2.
func (d *OpenCVDetector) Settings() EdgeSettings {
	s := EdgeSettings{Backend: BackendOpenCV, Low: d.Low, High: d.High}
	if d.BlurSize > 0 {
		s.BlurRadius = float64((d.BlurSize - 1) / 2)
	}
	return s
}

// Validate checks the thresholds and blur kernel size.
func (d *OpenCVDetector) Validate() error {
	c := CannyDetector{Low: d.Low, High: d.High}
	if err := c.Validate(); err != nil {
		return err
	}
	if d.BlurSize < 0 || (d.BlurSize > 0 && d.BlurSize%2 == 0) {
		return fmt.Errorf("%w: blur size must be zero or odd, got %d", ErrInvalidThresholds, d.BlurSize)
	}
	return nil
}
