package imaging

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Edge detector backends.
const (
	BackendCanny  = "canny"
	BackendOpenCV = "opencv"
)

// ErrUnknownBackend is returned for an edge detector name other than
// BackendCanny or BackendOpenCV.
var ErrUnknownBackend = errors.New("unknown edge detector")

// EdgeSettings selects an edge detector backend and its Canny parameters.
// BlurRadius is in pixels for both backends; OpenCV receives it as an odd
// kernel size of 2*ceil(BlurRadius)+1.
type EdgeSettings struct {
	Backend    string
	Low        int
	High       int
	BlurRadius float64
}

// DefaultEdgeSettings returns the pure Go detector with default thresholds.
func DefaultEdgeSettings() EdgeSettings {
	return EdgeSettings{Backend: BackendCanny, Low: DefaultCannyLow, High: DefaultCannyHigh}
}

// TunableDetector is an EdgeDetector that can report the settings it was
// built from, so callers can derive a variant with other thresholds.
type TunableDetector interface {
	EdgeDetector
	Settings() EdgeSettings
}

// Detector builds and validates the detector described by s. Selecting
// BackendOpenCV in a build without the gocv tag fails with
// ErrOpenCVUnavailable.
func (s EdgeSettings) Detector() (TunableDetector, error) {
	switch strings.ToLower(s.Backend) {
	case "", BackendCanny:
		d := &CannyDetector{Low: s.Low, High: s.High, BlurRadius: s.BlurRadius}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		return d, nil
	case BackendOpenCV:
		if !OpenCVAvailable {
			return nil, ErrOpenCVUnavailable
		}
		if s.BlurRadius < 0 {
			return nil, fmt.Errorf("%w: blur radius must be non-negative, got %g", ErrInvalidThresholds, s.BlurRadius)
		}
		d := &OpenCVDetector{Low: s.Low, High: s.High}
		if s.BlurRadius > 0 {
			d.BlurSize = 2*int(math.Ceil(s.BlurRadius)) + 1
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
}
