package hough

import "errors"

// ErrInvalidDimensions is returned when an image or edge mask has a
// non-positive size, or when a mask's pixel buffer does not match its
// declared width and height.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// ErrInvalidConfiguration is returned when a Config fails validation.
// Invalid values are reported, never replaced by defaults.
var ErrInvalidConfiguration = errors.New("invalid configuration")
