package hough

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipSegment(t *testing.T) {
	r := image.Rect(0, 0, 100, 50)

	tests := []struct {
		name               string
		x1, y1, x2, y2     float64
		ok                 bool
		wx1, wy1, wx2, wy2 float64
	}{
		{"inside", 10, 10, 20, 30, true, 10, 10, 20, 30},
		{"horizontal through", -1000, 25, 1000, 25, true, 0, 25, 100, 25},
		{"vertical through", 40, 1000, 40, -1000, true, 40, 50, 40, 0},
		{"diagonal corner to corner", -50, -25, 150, 75, true, 0, 0, 100, 50},
		{"entirely left", -30, 0, -10, 40, false, 0, 0, 0, 0},
		{"entirely below", 0, 60, 100, 90, false, 0, 0, 0, 0},
		{"parallel outside", 0, -5, 100, -5, false, 0, 0, 0, 0},
		{"point inside", 5, 5, 5, 5, true, 5, 5, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x1, y1, x2, y2, ok := ClipSegment(tt.x1, tt.y1, tt.x2, tt.y2, r)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.InDelta(t, tt.wx1, x1, 1e-9)
			assert.InDelta(t, tt.wy1, y1, 1e-9)
			assert.InDelta(t, tt.wx2, x2, 1e-9)
			assert.InDelta(t, tt.wy2, y2, 1e-9)
		})
	}
}
