package hough

import "image"

// ClipSegment clips the segment (x1,y1)-(x2,y2) to the closed rectangle
// spanned by r, using Liang-Barsky. ok is false when no part of the segment
// lies inside.
func ClipSegment(x1, y1, x2, y2 float64, r image.Rectangle) (cx1, cy1, cx2, cy2 float64, ok bool) {
	xmin, ymin := float64(r.Min.X), float64(r.Min.Y)
	xmax, ymax := float64(r.Max.X), float64(r.Max.Y)
	dx, dy := x2-x1, y2-y1

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1 - xmin},
		{dx, xmax - x1},
		{-dy, y1 - ymin},
		{dy, ymax - y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}
