package hough

import (
	"fmt"
	"image/color"
)

// Default parameter values, matching the classical accumulator the tools
// have always used.
const (
	DefaultVoteThreshold   = 95
	DefaultThetaMin        = -90
	DefaultThetaMax        = 90
	DefaultThetaStep       = 1
	DefaultWindowSize      = 5
	DefaultExtensionLength = 1000
	DefaultLineThickness   = 2
)

// DefaultLineColor is pure red.
var DefaultLineColor = color.NRGBA{R: 255, G: 0, B: 0, A: 255}

// Config holds every tunable of a detection run.
//
// Angles are integer degrees. The theta axis covers [ThetaMin, ThetaMax) in
// steps of ThetaStep. The suppression window is WindowHeight rho buckets by
// WindowWidth theta buckets.
type Config struct {
	// VoteThreshold is the exclusive lower bound on peak votes.
	VoteThreshold int `json:"vote_threshold"`

	ThetaMin  int `json:"theta_min"`
	ThetaMax  int `json:"theta_max"`
	ThetaStep int `json:"theta_step"`

	WindowHeight int `json:"window_height"`
	WindowWidth  int `json:"window_width"`

	// ExtensionLength is the distance from the foot of the normal to each
	// reconstructed endpoint.
	ExtensionLength int `json:"extension_length"`

	LineColor     color.NRGBA `json:"-"`
	LineThickness int         `json:"line_thickness"`

	// Workers bounds the goroutines used for voting and peak scanning.
	// Zero means GOMAXPROCS.
	Workers int `json:"workers"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		VoteThreshold:   DefaultVoteThreshold,
		ThetaMin:        DefaultThetaMin,
		ThetaMax:        DefaultThetaMax,
		ThetaStep:       DefaultThetaStep,
		WindowHeight:    DefaultWindowSize,
		WindowWidth:     DefaultWindowSize,
		ExtensionLength: DefaultExtensionLength,
		LineColor:       DefaultLineColor,
		LineThickness:   DefaultLineThickness,
	}
}

// Validate reports the first invalid field, wrapped in
// ErrInvalidConfiguration.
func (c Config) Validate() error {
	switch {
	case c.ThetaStep <= 0:
		return fmt.Errorf("%w: theta step must be positive, got %d", ErrInvalidConfiguration, c.ThetaStep)
	case c.ThetaMin >= c.ThetaMax:
		return fmt.Errorf("%w: theta range [%d, %d) is empty", ErrInvalidConfiguration, c.ThetaMin, c.ThetaMax)
	case c.VoteThreshold < 0:
		return fmt.Errorf("%w: vote threshold must not be negative, got %d", ErrInvalidConfiguration, c.VoteThreshold)
	case c.WindowHeight <= 0 || c.WindowWidth <= 0:
		return fmt.Errorf("%w: suppression window must be positive, got %dx%d", ErrInvalidConfiguration, c.WindowHeight, c.WindowWidth)
	case c.ExtensionLength < 0:
		return fmt.Errorf("%w: extension length must not be negative, got %d", ErrInvalidConfiguration, c.ExtensionLength)
	case c.LineThickness <= 0:
		return fmt.Errorf("%w: line thickness must be positive, got %d", ErrInvalidConfiguration, c.LineThickness)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfiguration, c.Workers)
	}
	return nil
}

// Style returns the rendering part of the configuration.
func (c Config) Style() Style {
	return Style{Color: c.LineColor, Thickness: c.LineThickness}
}
