package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/hough-tools-mcp/internal/analysis"
	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/httpapi"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
	"github.com/ironsheep/hough-tools-mcp/internal/server"
	"github.com/ironsheep/hough-tools-mcp/internal/store"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("hough-mcp - Hough line detection over MCP or HTTP")
	fmt.Println()
	fmt.Println("Usage: hough-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --http           Serve the HTTP API instead of MCP over stdio")
	fmt.Println("  --print-params   Print the effective detection parameters as YAML")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  HOUGH_MCP_LOG_LEVEL=debug      Enable debug logging")
	fmt.Println("  HOUGH_HTTP_ADDR=:5000          HTTP listen address")
	fmt.Println("  HOUGH_UPLOAD_DIR=uploads       Where uploads are stored")
	fmt.Println("  HOUGH_RESULT_DIR=results       Where rendered results are stored")
	fmt.Println("  HOUGH_DB_PATH=results/hough.db SQLite result index")
	fmt.Println("  HOUGH_PARAMS_FILE=params.yaml  Detection parameter overrides")
	fmt.Println("  HOUGH_EDGE_DETECTOR=canny      Edge detector: canny or opencv (needs -tags gocv)")
	fmt.Println("  HOUGH_CANNY_LOW=40             Canny weak edge threshold")
	fmt.Println("  HOUGH_CANNY_HIGH=120           Canny strong edge threshold")
	fmt.Println("  HOUGH_BLUR_RADIUS=0            Gaussian pre-blur radius")
	fmt.Println("  HOUGH_REQUEST_TIMEOUT=30s      Per-request detection timeout")
	fmt.Println("  HOUGH_WORKERS=0                Detection goroutines (0 = GOMAXPROCS)")
	fmt.Println("  HOUGH_CACHE_SIZE=16            Decoded images kept in memory (0 = unlimited)")
	fmt.Println()
	fmt.Println("Without --http the server communicates via MCP protocol over stdin/stdout.")
}

func main() {
	mode := "mcp"
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("hough-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  OpenCV:     %t\n", imaging.OpenCVAvailable)
			return
		case "--help", "-h", "help":
			usage()
			return
		case "--http":
			mode = "http"
		case "--print-params":
			mode = "params"
		default:
			fmt.Fprintf(os.Stderr, "unknown option %q\n\n", os.Args[1])
			usage()
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Hough MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if mode == "params" {
		if err := config.EncodeParams(os.Stdout, cfg.Hough); err != nil {
			log.Fatalf("Failed to print params: %v", err)
		}
		return
	}

	detector, err := cfg.Detector()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Edge detector: %s", cfg.EdgeDetector)
	}
	svc := analysis.NewService(imaging.NewBoundedImageCache(cfg.CacheSize), detector, cfg.Hough)

	if mode == "http" {
		if err := runHTTP(cfg, svc); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
		return
	}

	srv := server.New(svc, server.Options{
		Timeout: cfg.RequestTimeout,
		Debug:   cfg.Debug(),
		Version: Version,
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func runHTTP(cfg *config.Config, svc *analysis.Service) error {
	st, err := store.Open(cfg.DBPath, cfg.UploadDir, cfg.ResultDir)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := httpapi.New(svc, st, httpapi.Options{Timeout: cfg.RequestTimeout})
	return api.ListenAndServe(ctx, cfg.HTTPAddr)
}
