package hough

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_NoLinesIsCopy(t *testing.T) {
	base := createTestImage(40, 30, color.RGBA{90, 120, 150, 255})
	style := DefaultConfig().Style()

	once := Render(base, nil, style)
	twice := Render(once, []Line{}, style)

	assert.True(t, samePixels(base, once), "rendering no lines must copy the image")
	assert.True(t, samePixels(base, twice), "render(render(img, []), []) must equal img")
	assert.NotSame(t, once, twice)
}

func TestRender_DoesNotMutateBase(t *testing.T) {
	base := createTestImage(50, 50, color.White)
	snapshot := createTestImage(50, 50, color.White)

	out := Render(base, []Line{{X1: -1000, Y1: 25, X2: 1000, Y2: 25}}, DefaultConfig().Style())

	assert.True(t, samePixels(base, snapshot), "base image was modified")
	assert.False(t, samePixels(base, out), "line was not drawn")
}

func TestRender_HorizontalLine(t *testing.T) {
	base := createTestImage(100, 100, color.Gray{Y: 128})
	line := Line{X1: 1000, Y1: 50, X2: -1000, Y2: 50}

	out := Render(base, []Line{line}, Style{Color: DefaultLineColor, Thickness: 2})

	c := out.NRGBAAt(10, 50)
	assert.Greater(t, c.R, uint8(240), "pixel on the line should be red, got %+v", c)
	assert.Less(t, c.G, uint8(20))
	assert.Less(t, c.B, uint8(20))

	far := out.NRGBAAt(10, 10)
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, far)
}

func TestRender_Dimensions(t *testing.T) {
	base := image.NewRGBA(image.Rect(10, 20, 70, 60))

	out := Render(base, []Line{{X1: 0, Y1: 0, X2: 59, Y2: 39}}, DefaultConfig().Style())
	assert.Equal(t, image.Rect(0, 0, 60, 40), out.Bounds())
}

func TestRender_SkipsDegenerateLines(t *testing.T) {
	base := createTestImage(30, 30, color.White)
	lines := []Line{
		{X1: 15, Y1: 15, X2: 15, Y2: 15},           // zero length
		{X1: 100, Y1: 100, X2: 200, Y2: 150},       // misses the canvas
		{X1: -50, Y1: -10, X2: 80, Y2: -10},        // above the canvas
	}

	out := Render(base, lines, DefaultConfig().Style())
	assert.True(t, samePixels(base, out))
}

func TestRender_ThicknessWidensStroke(t *testing.T) {
	base := createTestImage(60, 60, color.Black)
	line := Line{X1: 30, Y1: -100, X2: 30, Y2: 100}

	thin := Render(base, []Line{line}, Style{Color: color.NRGBA{G: 255, A: 255}, Thickness: 1})
	thick := Render(base, []Line{line}, Style{Color: color.NRGBA{G: 255, A: 255}, Thickness: 7})

	count := func(img *image.NRGBA) int {
		n := 0
		for x := 0; x < 60; x++ {
			if img.NRGBAAt(x, 30).G > 0 {
				n++
			}
		}
		return n
	}
	require.Greater(t, count(thin), 0)
	assert.Greater(t, count(thick), count(thin))
}

func TestRender_CrossingLines(t *testing.T) {
	base := createTestImage(40, 40, color.Gray{Y: 128})
	lines := []Line{
		{X1: -100, Y1: 20, X2: 100, Y2: 20},
		{X1: 20, Y1: 100, X2: 20, Y2: -100},
	}

	out := Render(base, lines, Style{Color: DefaultLineColor, Thickness: 2})

	for _, p := range []image.Point{{5, 20}, {35, 20}, {20, 5}, {20, 35}, {20, 20}} {
		c := out.NRGBAAt(p.X, p.Y)
		assert.Greater(t, c.R, uint8(240), "pixel %v should be red, got %+v", p, c)
		assert.Less(t, c.G, uint8(20), "pixel %v", p)
	}
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, out.NRGBAAt(5, 5))
}

// Many tied peaks on a large image must not cost one canvas-sized mask each.
func TestRender_AllocationsIndependentOfLineCount(t *testing.T) {
	base := createTestImage(200, 150, color.White)
	style := DefaultConfig().Style()

	lines := make([]Line, 400)
	for i := range lines {
		lines[i] = Line{X1: -300, Y1: i - 100, X2: 500, Y2: 300 - i}
	}

	one := testing.AllocsPerRun(3, func() { Render(base, lines[:1], style) })
	many := testing.AllocsPerRun(3, func() { Render(base, lines, style) })
	assert.Less(t, many-one, 50.0, "allocations grew from %.0f to %.0f", one, many)
}
