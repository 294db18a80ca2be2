package imaging

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// heatColors is the number of palette steps used for vote counts.
const heatColors = 64

// accumulatorGrid adapts an accumulator to plotter.GridXYZ with theta in
// degrees on X and rho on Y.
type accumulatorGrid struct {
	acc   *hough.Accumulator
	space *hough.ParameterSpace
}

func (g accumulatorGrid) Dims() (c, r int)   { return g.acc.Cols, g.acc.Rows }
func (g accumulatorGrid) Z(c, r int) float64 { return float64(g.acc.At(r, c)) }
func (g accumulatorGrid) X(c int) float64    { return float64(g.space.ThetaDegrees(c)) }
func (g accumulatorGrid) Y(r int) float64    { return float64(g.space.Rhos[r]) }

// PlotAccumulator renders the accumulator as a width x height PNG heat map.
func PlotAccumulator(acc *hough.Accumulator, space *hough.ParameterSpace, width, height int) (*EncodedImage, error) {
	if acc == nil || space == nil || acc.Rows == 0 || acc.Cols == 0 {
		return nil, fmt.Errorf("%w: empty accumulator", hough.ErrInvalidDimensions)
	}
	if acc.Rows != space.RhoCount() || acc.Cols != space.ThetaCount() {
		return nil, fmt.Errorf("%w: accumulator %dx%d does not match parameter space %dx%d",
			hough.ErrInvalidDimensions, acc.Rows, acc.Cols, space.RhoCount(), space.ThetaCount())
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: plot size %dx%d", hough.ErrInvalidDimensions, width, height)
	}

	p := plot.New()
	p.Title.Text = "Hough accumulator"
	p.X.Label.Text = "theta (degrees)"
	p.Y.Label.Text = "rho (pixels)"

	hm := plotter.NewHeatMap(accumulatorGrid{acc: acc, space: space}, palette.Heat(heatColors, 1))
	// A flat accumulator would give the palette a zero-width range.
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(width), vg.Length(height)),
		vgimg.UseDPI(int(vg.Inch)),
	)
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode accumulator plot: %w", err)
	}
	return encodedPNG(buf.Bytes(), width, height), nil
}
