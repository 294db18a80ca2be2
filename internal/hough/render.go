package hough

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// Style controls how lines are drawn.
type Style struct {
	Color     color.NRGBA
	Thickness int
}

// Render draws lines over a copy of base and returns the copy. base is never
// modified and the result has base's dimensions, anchored at (0, 0).
//
// Each line is clipped to the canvas before drawing; lines that miss the
// canvas or collapse to a point are skipped. Coordinates address pixel
// centres, so a horizontal line at y=k with thickness 2 fully covers row k.
// All strokes share one coverage mask, so crossing lines are blended once.
func Render(base image.Image, lines []Line, style Style) *image.NRGBA {
	dst := imaging.Clone(base)
	if len(lines) == 0 || style.Thickness <= 0 {
		return dst
	}

	b := dst.Bounds()
	half := float64(style.Thickness) / 2
	pad := style.Thickness + 1

	// The mask is padded so stroke corners just outside the image stay on it.
	z := vector.NewRasterizer(b.Dx()+2*pad, b.Dy()+2*pad)
	z.DrawOp = draw.Over
	strokes := 0
	for _, l := range lines {
		if addStroke(z, b, float64(l.X1), float64(l.Y1), float64(l.X2), float64(l.Y2), half, float64(pad)) {
			strokes++
		}
	}
	if strokes == 0 {
		return dst
	}

	z.Draw(dst, image.Rect(-pad, -pad, b.Dx()+pad, b.Dy()+pad), image.NewUniform(style.Color), image.Point{})
	return dst
}

// addStroke appends the rectangle of half-width half around the clipped
// segment to z's path, shifted by off. It reports whether anything was added.
// Every rectangle is wound the same way, so overlaps add up instead of
// cancelling.
func addStroke(z *vector.Rasterizer, b image.Rectangle, x1, y1, x2, y2, half, off float64) bool {
	cx1, cy1, cx2, cy2, ok := ClipSegment(x1+0.5, y1+0.5, x2+0.5, y2+0.5, b)
	if !ok {
		return false
	}
	dx, dy := cx2-cx1, cy2-cy1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return false
	}
	nx, ny := -dy/length*half, dx/length*half

	z.MoveTo(float32(cx1+nx+off), float32(cy1+ny+off))
	z.LineTo(float32(cx2+nx+off), float32(cy2+ny+off))
	z.LineTo(float32(cx2-nx+off), float32(cy2-ny+off))
	z.LineTo(float32(cx1-nx+off), float32(cy1-ny+off))
	z.ClosePath()
	return true
}
