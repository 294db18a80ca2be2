package hough

import (
	"image"
	"image/color"
	"math/rand"
)

// maskFromPoints builds a width x height mask with the given points set.
func maskFromPoints(width, height int, points ...EdgePoint) *EdgeMask {
	m := NewEdgeMask(width, height)
	for _, p := range points {
		m.Set(p.X, p.Y, true)
	}
	return m
}

// diagonalPoints returns (start+i, start+i) for i in [0, n).
func diagonalPoints(start, n int) []EdgePoint {
	points := make([]EdgePoint, n)
	for i := range points {
		points[i] = EdgePoint{X: start + i, Y: start + i}
	}
	return points
}

// randomPoints returns n reproducible points inside width x height.
func randomPoints(seed int64, n, width, height int) []EdgePoint {
	r := rand.New(rand.NewSource(seed))
	points := make([]EdgePoint, n)
	for i := range points {
		points[i] = EdgePoint{X: r.Intn(width), Y: r.Intn(height)}
	}
	return points
}

// gridFromRows builds an accumulator from literal rows.
func gridFromRows(rows [][]int) *Accumulator {
	acc := NewAccumulator(len(rows), len(rows[0]))
	for r, row := range rows {
		copy(acc.Votes[r*acc.Cols:], row)
	}
	return acc
}

// createTestImage creates a solid-colour RGBA image.
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// samePixels reports whether a and b have equal sizes and equal colours at
// every offset from their respective origins.
func samePixels(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			r1, g1, b1, a1 := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, a2 := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}
