// Package httpapi serves line detection over HTTP for browser clients:
// upload an image, get back the URL of the rendered result, and fetch stored
// results by id.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/ironsheep/hough-tools-mcp/internal/analysis"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
	"github.com/ironsheep/hough-tools-mcp/internal/store"
)

// DefaultMaxUpload caps multipart request bodies.
const DefaultMaxUpload = 32 << 20

// Options configures a Server.
type Options struct {
	// Timeout bounds the detection run of a single upload.
	Timeout time.Duration

	// MaxUpload caps the request body in bytes.
	MaxUpload int64
}

// Server is the HTTP front end.
type Server struct {
	svc   *analysis.Service
	store *store.Store
	opts  Options
}

// New creates a server. Results are persisted through st.
func New(svc *analysis.Service, st *store.Store, opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = DefaultMaxUpload
	}
	return &Server{svc: svc, store: st, opts: opts}
}

// Handler returns the routed handler wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /process-image", s.handleProcessImage)
	mux.HandleFunc("GET /download/{filename}", s.handleDownload)
	mux.HandleFunc("GET /results", s.handleListResults)
	mux.HandleFunc("GET /results/{id}", s.handleGetResult)
	return withLogging(withCORS(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Hough server is running!")
}

// ProcessImageResponse is returned by POST /process-image.
type ProcessImageResponse struct {
	ProcessedImageURL string `json:"processedImageUrl"`
	ID                string `json:"id"`
	LineCount         int    `json:"lineCount"`
}

func (s *Server) handleProcessImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUpload)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "No image uploaded")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		writeJSONError(w, http.StatusBadRequest, "Empty filename")
		return
	}

	id, uploadPath, err := s.store.SaveUpload(file)
	if err != nil {
		log.Printf("upload %q: %v", header.Filename, err)
		writeJSONError(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	rec, err := s.process(r.Context(), id, uploadPath, header.Filename)
	if err != nil {
		log.Printf("processing %s (%q): %v", id, header.Filename, err)
		if err := s.store.Discard(id); err != nil {
			log.Printf("cleanup: %v", err)
		}
		writeJSONError(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	writeJSON(w, http.StatusOK, ProcessImageResponse{
		ProcessedImageURL: "/download/" + rec.ResultFile,
		ID:                rec.ID,
		LineCount:         rec.LineCount,
	})
}

// process runs detection on a saved upload, writes the rendered result and
// indexes it.
func (s *Server) process(ctx context.Context, id, uploadPath, originalName string) (*store.Record, error) {
	f, err := os.Open(uploadPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	img, _, err := imaging.Decode(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	params := s.svc.Params()
	a, err := s.svc.Analyze(ctx, img, params)
	if err != nil {
		return nil, err
	}

	name, err := s.store.SaveResult(id, a.Rendered)
	if err != nil {
		return nil, err
	}

	paramsJSON, err := json.Marshal(paramsDoc(params))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	linesJSON, err := json.Marshal(nonNilLines(a.Lines))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lines: %w", err)
	}

	rec := &store.Record{
		ID:           id,
		OriginalName: originalName,
		UploadPath:   uploadPath,
		ResultFile:   name,
		Width:        a.Width,
		Height:       a.Height,
		EdgePoints:   a.EdgePoints,
		LineCount:    len(a.Lines),
		Params:       paramsJSON,
		Lines:        linesJSON,
		ElapsedMs:    a.Elapsed.Milliseconds(),
	}
	if err := s.store.Insert(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

type paramsRecord struct {
	hough.Config
	LineColor string `json:"line_color"`
}

func paramsDoc(cfg hough.Config) paramsRecord {
	return paramsRecord{Config: cfg, LineColor: hough.FormatColor(cfg.LineColor)}
}

func nonNilLines(lines []hough.Line) []hough.Line {
	if lines == nil {
		return []hough.Line{}
	}
	return lines
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	path, err := s.store.ResultPath(r.PathValue("filename"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Result not found")
		return
	}
	if err != nil {
		log.Printf("get result: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load result")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	recs, err := s.store.List(limit)
	if err != nil {
		log.Printf("list results: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}
