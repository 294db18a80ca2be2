package hough

import (
	"fmt"
	"math"
)

// ParameterSpace is the discretised (rho, theta) plane for one image.
type ParameterSpace struct {
	Height int `json:"height"`
	Width  int `json:"width"`

	// DiagLen is ceil(sqrt(height² + width²)), the largest possible |rho|.
	DiagLen int `json:"diag_len"`

	ThetaMin  int `json:"theta_min"`
	ThetaMax  int `json:"theta_max"`
	ThetaStep int `json:"theta_step"`

	// Thetas holds bucket angles in radians, ascending.
	Thetas []float64 `json:"-"`

	// Rhos holds bucket distances over [-DiagLen, DiagLen), ascending.
	Rhos []int `json:"-"`
}

// NewParameterSpace discretises the Hough plane for a height x width image.
//
// Theta bucket k has angle (thetaMin + k*thetaStep) degrees; the last bucket
// is the largest such angle strictly below thetaMax.
func NewParameterSpace(height, width, thetaMin, thetaMax, thetaStep int) (*ParameterSpace, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrInvalidDimensions, width, height)
	}
	if thetaStep <= 0 {
		return nil, fmt.Errorf("%w: theta step must be positive, got %d", ErrInvalidConfiguration, thetaStep)
	}
	if thetaMin >= thetaMax {
		return nil, fmt.Errorf("%w: theta range [%d, %d) is empty", ErrInvalidConfiguration, thetaMin, thetaMax)
	}

	h, w := float64(height), float64(width)
	diag := int(math.Ceil(math.Sqrt(h*h + w*w)))

	n := (thetaMax - thetaMin + thetaStep - 1) / thetaStep
	thetas := make([]float64, n)
	for k := range thetas {
		thetas[k] = degToRad(float64(thetaMin + k*thetaStep))
	}

	rhos := make([]int, 2*diag)
	for i := range rhos {
		rhos[i] = i - diag
	}

	return &ParameterSpace{
		Height:    height,
		Width:     width,
		DiagLen:   diag,
		ThetaMin:  thetaMin,
		ThetaMax:  thetaMax,
		ThetaStep: thetaStep,
		Thetas:    thetas,
		Rhos:      rhos,
	}, nil
}

// RhoCount is the number of rho buckets.
func (s *ParameterSpace) RhoCount() int { return len(s.Rhos) }

// ThetaCount is the number of theta buckets.
func (s *ParameterSpace) ThetaCount() int { return len(s.Thetas) }

// ThetaDegrees returns the angle of theta bucket t in degrees.
func (s *ParameterSpace) ThetaDegrees(t int) int {
	return s.ThetaMin + t*s.ThetaStep
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
