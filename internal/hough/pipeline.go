package hough

import (
	"context"
	"fmt"
)

// Result carries every intermediate of a detection run. It is owned by the
// caller; nothing in it is shared with other runs.
type Result struct {
	Space       *ParameterSpace
	Accumulator *Accumulator
	Peaks       []Peak
	Lines       []Line
	EdgePoints  int
}

// Detect runs the full pipeline over mask: parameter space, voting, peak
// extraction and line reconstruction. An empty mask is not an error; it
// yields no lines.
//
// ctx is checked between phases only. A cancelled run returns ctx.Err() and
// leaves nothing behind.
func Detect(ctx context.Context, mask *EdgeMask, cfg Config) (*Result, error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	space, err := NewParameterSpace(mask.Height, mask.Width, cfg.ThetaMin, cfg.ThetaMax, cfg.ThetaStep)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	points := mask.Points()
	acc := Vote(points, space, cfg.Workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	peaks, err := ExtractPeaks(acc, cfg.WindowHeight, cfg.WindowWidth, cfg.VoteThreshold, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("peak extraction: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := make([]Line, len(peaks))
	for i, p := range peaks {
		lines[i] = Reconstruct(p, space, cfg.ExtensionLength)
	}

	return &Result{
		Space:       space,
		Accumulator: acc,
		Peaks:       peaks,
		Lines:       lines,
		EdgePoints:  len(points),
	}, nil
}

// DetectLines is Detect reduced to its line list.
func DetectLines(ctx context.Context, mask *EdgeMask, cfg Config) ([]Line, error) {
	res, err := Detect(ctx, mask, cfg)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}
