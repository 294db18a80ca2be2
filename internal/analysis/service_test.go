package analysis

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// stepImage is black for x < edge and white elsewhere.
func stepImage(width, height, edge int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x < edge {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

type fixedDetector struct {
	mask *hough.EdgeMask
	err  error
}

func (d fixedDetector) Detect(image.Image) (*hough.EdgeMask, error) { return d.mask, d.err }

func TestAnalyze_StepEdgeGivesVerticalLine(t *testing.T) {
	svc := NewService(nil, nil, hough.DefaultConfig())

	a, err := svc.Analyze(context.Background(), stepImage(120, 110, 60), svc.Params())
	require.NoError(t, err)

	assert.Equal(t, 120, a.Width)
	assert.Equal(t, 110, a.Height)
	assert.Equal(t, 110, a.EdgePoints)
	assert.Equal(t, 110, a.MaxVotes())
	require.Len(t, a.Lines, 1)

	l := a.Lines[0]
	assert.Equal(t, 0, l.ThetaDegrees)
	assert.Equal(t, 59, l.Rho)
	assert.Equal(t, 59, l.X1)
	assert.Equal(t, 59, l.X2)
	assert.Equal(t, 110, l.Votes)

	require.Equal(t, image.Rect(0, 0, 120, 110), a.Rendered.Bounds())
	on := a.Rendered.NRGBAAt(59, 50)
	assert.Greater(t, on.R, uint8(240))
	assert.Less(t, on.G, uint8(20))
	assert.Equal(t, color.NRGBA{A: 255}, a.Rendered.NRGBAAt(10, 50))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, a.Rendered.NRGBAAt(100, 50))
}

func TestAnalyze_UsesInjectedDetector(t *testing.T) {
	mask := hough.NewEdgeMask(30, 30)
	svc := NewService(nil, fixedDetector{mask: mask}, hough.DefaultConfig())

	a, err := svc.Analyze(context.Background(), stepImage(30, 30, 15), svc.Params())
	require.NoError(t, err)
	assert.Zero(t, a.EdgePoints)
	assert.Empty(t, a.Lines)

	boom := errors.New("boom")
	svc = NewService(nil, fixedDetector{err: boom}, hough.DefaultConfig())
	_, err = svc.Analyze(context.Background(), stepImage(30, 30, 15), svc.Params())
	assert.ErrorIs(t, err, boom)
}

func TestAnalyze_InvalidParams(t *testing.T) {
	svc := NewService(nil, nil, hough.DefaultConfig())
	params := svc.Params()
	params.ThetaStep = 0

	_, err := svc.Analyze(context.Background(), stepImage(10, 10, 5), params)
	assert.ErrorIs(t, err, hough.ErrInvalidConfiguration)
}

func TestAnalyze_Cancelled(t *testing.T) {
	svc := NewService(nil, nil, hough.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, stepImage(40, 40, 20), svc.Params())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeMask(t *testing.T) {
	mask := hough.NewEdgeMask(100, 100)
	for i := 0; i < 100; i++ {
		mask.Set(i, i, true)
	}
	svc := NewService(nil, nil, hough.DefaultConfig())

	a, err := svc.AnalyzeMask(context.Background(), mask, svc.Params())
	require.NoError(t, err)
	require.Len(t, a.Lines, 1)
	assert.Equal(t, -45, a.Lines[0].ThetaDegrees)
	assert.Equal(t, 0, a.Lines[0].Rho)
	assert.Equal(t, 100, a.Lines[0].Votes)

	_, err = svc.AnalyzeMask(context.Background(), &hough.EdgeMask{Width: 3, Height: 3}, svc.Params())
	assert.ErrorIs(t, err, hough.ErrInvalidDimensions)
}

func TestAnalyzeFile_Precomputed(t *testing.T) {
	mask := hough.NewEdgeMask(100, 100)
	for i := 0; i < 100; i++ {
		mask.Set(i, i, true)
	}
	path := writePNG(t, imaging.MaskImage(mask))

	cache := imaging.NewImageCache()
	svc := NewService(cache, nil, hough.DefaultConfig())

	a, err := svc.AnalyzeFile(context.Background(), path, svc.Params(), true)
	require.NoError(t, err)
	assert.Equal(t, 100, a.EdgePoints)
	require.Len(t, a.Lines, 1)
	assert.Equal(t, -45, a.Lines[0].ThetaDegrees)
	assert.Equal(t, 1, cache.Len())
}

func TestAnalyzeFile_Errors(t *testing.T) {
	svc := NewService(nil, nil, hough.DefaultConfig())

	_, err := svc.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.png"), svc.Params(), false)
	assert.Error(t, err)
}

func TestAnalyze_Deterministic(t *testing.T) {
	img := stepImage(80, 120, 30)
	params := hough.DefaultConfig()
	svc := NewService(nil, nil, params)

	first, err := svc.Analyze(context.Background(), img, params)
	require.NoError(t, err)

	params.Workers = 3
	second, err := svc.Analyze(context.Background(), img, params)
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines)
	assert.Equal(t, first.Rendered.Pix, second.Rendered.Pix)
}
