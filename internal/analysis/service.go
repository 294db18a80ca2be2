package analysis

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// Analysis is the outcome of one detection run over an image.
type Analysis struct {
	Width      int
	Height     int
	EdgePoints int
	Result     *hough.Result
	Lines      []hough.Line
	// Rendered is the input in grayscale with the lines drawn over it.
	Rendered *image.NRGBA
	Elapsed  time.Duration
}

// MaxVotes returns the largest accumulator cell.
func (a *Analysis) MaxVotes() int {
	_, _, votes := a.Result.Accumulator.Max()
	return votes
}

// Service glues an edge detector, the Hough pipeline and the renderer.
// It is safe for concurrent use.
type Service struct {
	cache     *imaging.ImageCache
	detector  imaging.EdgeDetector
	params    hough.Config
	maskLevel uint8
}

// NewService creates a service. params are the defaults handed out by
// Params; each call still receives its own configuration.
func NewService(cache *imaging.ImageCache, detector imaging.EdgeDetector, params hough.Config) *Service {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	if detector == nil {
		detector = imaging.NewCannyDetector()
	}
	return &Service{
		cache:     cache,
		detector:  detector,
		params:    params,
		maskLevel: imaging.DefaultMaskLevel,
	}
}

// Params returns a copy of the default detection parameters.
func (s *Service) Params() hough.Config { return s.params }

// Detector returns the edge detector used by Analyze and EdgeMask.
func (s *Service) Detector() imaging.EdgeDetector { return s.detector }

// Cache returns the image cache used by AnalyzeFile.
func (s *Service) Cache() *imaging.ImageCache { return s.cache }

// EdgeMask runs the configured edge detector.
func (s *Service) EdgeMask(img image.Image) (*hough.EdgeMask, error) {
	mask, err := s.detector.Detect(img)
	if err != nil {
		return nil, fmt.Errorf("failed to detect edges: %w", err)
	}
	return mask, nil
}

// Analyze detects edges in img, finds lines and renders them.
func (s *Service) Analyze(ctx context.Context, img image.Image, params hough.Config) (*Analysis, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	mask, err := s.EdgeMask(img)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, mask, imaging.GrayBase(img), params)
}

// AnalyzeMask skips edge detection. Lines are drawn over the mask itself.
func (s *Service) AnalyzeMask(ctx context.Context, mask *hough.EdgeMask, params hough.Config) (*Analysis, error) {
	if err := mask.Validate(); err != nil {
		return nil, err
	}
	return s.run(ctx, mask, imaging.MaskImage(mask), params)
}

// AnalyzeFile loads path through the cache and analyzes it. When
// precomputed is set the file is taken to be an edge map already and is
// thresholded instead of passed through the edge detector.
func (s *Service) AnalyzeFile(ctx context.Context, path string, params hough.Config, precomputed bool) (*Analysis, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if !precomputed {
		return s.Analyze(ctx, img, params)
	}

	mask, err := imaging.MaskFromImage(img, s.maskLevel)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, mask, imaging.GrayBase(img), params)
}

func (s *Service) run(ctx context.Context, mask *hough.EdgeMask, base image.Image, params hough.Config) (*Analysis, error) {
	start := time.Now()
	res, err := hough.Detect(ctx, mask, params)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Width:      mask.Width,
		Height:     mask.Height,
		EdgePoints: res.EdgePoints,
		Result:     res,
		Lines:      res.Lines,
		Rendered:   hough.Render(base, res.Lines, params.Style()),
		Elapsed:    time.Since(start),
	}, nil
}
