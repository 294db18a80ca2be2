package hough

import (
	"fmt"
	"image"
)

// EdgePoint is the pixel coordinate of a detected edge.
type EdgePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// EdgeMask is a row-major boolean grid marking edge pixels.
type EdgeMask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewEdgeMask allocates an all-false mask.
func NewEdgeMask(width, height int) *EdgeMask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &EdgeMask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// EdgeMaskFromRows builds a mask from rows[y][x]. All rows must share the
// same length.
func EdgeMaskFromRows(rows [][]bool) (*EdgeMask, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidDimensions)
	}
	m := NewEdgeMask(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.Width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidDimensions, y, len(row), m.Width)
		}
		copy(m.Pix[y*m.Width:], row)
	}
	return m, nil
}

// Validate checks that the mask is non-empty and its buffer matches its size.
func (m *EdgeMask) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil edge mask", ErrInvalidDimensions)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: edge mask is %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height {
		return fmt.Errorf("%w: edge mask holds %d pixels, want %d", ErrInvalidDimensions, len(m.Pix), m.Width*m.Height)
	}
	return nil
}

// Bounds returns the mask rectangle anchored at the origin.
func (m *EdgeMask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At reports whether (x, y) is an edge. Out-of-range coordinates are not.
func (m *EdgeMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks or clears (x, y). Out-of-range coordinates are ignored.
func (m *EdgeMask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = v
}

// Count returns the number of edge pixels.
func (m *EdgeMask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Points lists edge pixels in row-major order (by y, then x).
func (m *EdgeMask) Points() []EdgePoint {
	points := make([]EdgePoint, 0, m.Count())
	for i, v := range m.Pix {
		if v {
			points = append(points, EdgePoint{X: i % m.Width, Y: i / m.Width})
		}
	}
	return points
}
