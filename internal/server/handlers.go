package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/hough-tools-mcp/internal/analysis"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// Default heat map size for hough_accumulator.
const (
	defaultPlotWidth  = 800
	defaultPlotHeight = 600
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "hough_detect_lines").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidArguments marks argument errors so they map to -32602.
var errInvalidArguments = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return -32602. Every other failure, including a timeout,
// returns -32000 with the error text in data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if s.opts.Debug {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		if errors.Is(err, errInvalidArguments) || errors.Is(err, hough.ErrInvalidConfiguration) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "hough_edge_detect":
		return s.handleEdgeDetect(args)
	case "hough_detect_lines":
		return s.handleDetectLines(ctx, args)
	case "hough_render_lines":
		return s.handleRenderLines(ctx, args)
	case "hough_accumulator":
		return s.handleAccumulator(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments and requires a path.
func decodeArgs(args json.RawMessage, dst interface{ path() string }) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing arguments", errInvalidArguments)
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	if dst.path() == "" {
		return fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	return nil
}

// === Image Information ===

type pathArgs struct {
	Path string `json:"path"`
}

func (a *pathArgs) path() string { return a.Path }

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.svc.Cache(), a.Path)
}

// === Edge Detection ===

type edgeDetectArgs struct {
	Path          string   `json:"path"`
	ThresholdLow  *int     `json:"threshold_low"`
	ThresholdHigh *int     `json:"threshold_high"`
	BlurRadius    *float64 `json:"blur_radius"`
}

func (a *edgeDetectArgs) path() string { return a.Path }

// EdgeDetectResult is the binary edge mask as a PNG plus its edge count.
type EdgeDetectResult struct {
	imaging.EncodedImage
	EdgePoints int `json:"edge_points"`
}

func (s *Server) handleEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a edgeDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	d, err := s.edgeDetector(&a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidArguments, err)
	}

	img, err := s.svc.Cache().Load(a.Path)
	if err != nil {
		return nil, err
	}
	mask, err := d.Detect(img)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(imaging.MaskImage(mask))
	if err != nil {
		return nil, err
	}
	return &EdgeDetectResult{EncodedImage: *enc, EdgePoints: mask.Count()}, nil
}

// edgeDetector returns the service's detector, or a variant of the same
// backend when the call overrides any threshold.
func (s *Server) edgeDetector(a *edgeDetectArgs) (imaging.EdgeDetector, error) {
	base := s.svc.Detector()
	if a.ThresholdLow == nil && a.ThresholdHigh == nil && a.BlurRadius == nil {
		return base, nil
	}

	settings := imaging.DefaultEdgeSettings()
	if t, ok := base.(imaging.TunableDetector); ok {
		settings = t.Settings()
	}
	if a.ThresholdLow != nil {
		settings.Low = *a.ThresholdLow
	}
	if a.ThresholdHigh != nil {
		settings.High = *a.ThresholdHigh
	}
	if a.BlurRadius != nil {
		settings.BlurRadius = *a.BlurRadius
	}
	return settings.Detector()
}

// === Line Detection ===

// houghArgs carries the optional detection parameters shared by the hough_*
// tools. Absent fields keep the server defaults.
type houghArgs struct {
	Path             string  `json:"path"`
	EdgesPrecomputed bool    `json:"edges_precomputed"`
	VoteThreshold    *int    `json:"vote_threshold"`
	ThetaMin         *int    `json:"theta_min"`
	ThetaMax         *int    `json:"theta_max"`
	ThetaStep        *int    `json:"theta_step"`
	WindowHeight     *int    `json:"window_height"`
	WindowWidth      *int    `json:"window_width"`
	ExtensionLength  *int    `json:"extension_length"`
	LineColor        *string `json:"line_color"`
	LineThickness    *int    `json:"line_thickness"`
}

func (a *houghArgs) path() string { return a.Path }

// params overlays the supplied arguments on base and validates the result.
func (a *houghArgs) params(base hough.Config) (hough.Config, error) {
	cfg := base
	for _, f := range []struct {
		src *int
		dst *int
	}{
		{a.VoteThreshold, &cfg.VoteThreshold},
		{a.ThetaMin, &cfg.ThetaMin},
		{a.ThetaMax, &cfg.ThetaMax},
		{a.ThetaStep, &cfg.ThetaStep},
		{a.WindowHeight, &cfg.WindowHeight},
		{a.WindowWidth, &cfg.WindowWidth},
		{a.ExtensionLength, &cfg.ExtensionLength},
		{a.LineThickness, &cfg.LineThickness},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	if a.LineColor != nil {
		c, err := hough.ParseColor(*a.LineColor)
		if err != nil {
			return base, err
		}
		cfg.LineColor = c
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

func (s *Server) analyze(ctx context.Context, a *houghArgs) (*analysis.Analysis, hough.Config, error) {
	params, err := a.params(s.svc.Params())
	if err != nil {
		return nil, params, err
	}
	res, err := s.svc.AnalyzeFile(ctx, a.Path, params, a.EdgesPrecomputed)
	return res, params, err
}

// DetectLinesResult summarises a detection run.
type DetectLinesResult struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	EdgePoints int          `json:"edge_points"`
	DiagLen    int          `json:"diag_len"`
	MaxVotes   int          `json:"max_votes"`
	Count      int          `json:"count"`
	Lines      []hough.Line `json:"lines"`
	Params     hough.Config `json:"params"`
	LineColor  string       `json:"line_color"`
	ElapsedMs  int64        `json:"elapsed_ms"`
}

func newDetectLinesResult(a *analysis.Analysis, params hough.Config) DetectLinesResult {
	return DetectLinesResult{
		Width:      a.Width,
		Height:     a.Height,
		EdgePoints: a.EdgePoints,
		DiagLen:    a.Result.Space.DiagLen,
		MaxVotes:   a.MaxVotes(),
		Count:      len(a.Lines),
		Lines:      a.Lines,
		Params:     params,
		LineColor:  hough.FormatColor(params.LineColor),
		ElapsedMs:  a.Elapsed.Milliseconds(),
	}
}

func (s *Server) handleDetectLines(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a houghArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	res, params, err := s.analyze(ctx, &a)
	if err != nil {
		return nil, err
	}
	return newDetectLinesResult(res, params), nil
}

// RenderLinesResult is a detection run plus the rendered image.
type RenderLinesResult struct {
	DetectLinesResult
	Image *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleRenderLines(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a houghArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	res, params, err := s.analyze(ctx, &a)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(res.Rendered)
	if err != nil {
		return nil, err
	}
	return &RenderLinesResult{DetectLinesResult: newDetectLinesResult(res, params), Image: enc}, nil
}

// === Accumulator ===

type accumulatorArgs struct {
	houghArgs
	PlotWidth  int `json:"plot_width"`
	PlotHeight int `json:"plot_height"`
}

// AccumulatorResult is the Hough space heat map plus its peaks.
type AccumulatorResult struct {
	Plot       *imaging.EncodedImage `json:"plot"`
	ThetaCount int                   `json:"theta_count"`
	RhoCount   int                   `json:"rho_count"`
	DiagLen    int                   `json:"diag_len"`
	MaxVotes   int                   `json:"max_votes"`
	TotalVotes int                   `json:"total_votes"`
	Peaks      []hough.Peak          `json:"peaks"`
}

func (s *Server) handleAccumulator(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a accumulatorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.PlotWidth == 0 {
		a.PlotWidth = defaultPlotWidth
	}
	if a.PlotHeight == 0 {
		a.PlotHeight = defaultPlotHeight
	}
	if a.PlotWidth < 0 || a.PlotHeight < 0 {
		return nil, fmt.Errorf("%w: plot size must be positive", errInvalidArguments)
	}

	res, _, err := s.analyze(ctx, &a.houghArgs)
	if err != nil {
		return nil, err
	}
	acc, space := res.Result.Accumulator, res.Result.Space
	plot, err := imaging.PlotAccumulator(acc, space, a.PlotWidth, a.PlotHeight)
	if err != nil {
		return nil, err
	}
	return &AccumulatorResult{
		Plot:       plot,
		ThetaCount: space.ThetaCount(),
		RhoCount:   space.RhoCount(),
		DiagLen:    space.DiagLen,
		MaxVotes:   res.MaxVotes(),
		TotalVotes: acc.Total(),
		Peaks:      res.Result.Peaks,
	}, nil
}
