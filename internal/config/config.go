// Package config loads server settings from an optional .env file, the
// process environment and an optional YAML file of line detection
// parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// Environment variable names.
const (
	EnvLogLevel       = "HOUGH_MCP_LOG_LEVEL"
	EnvHTTPAddr       = "HOUGH_HTTP_ADDR"
	EnvUploadDir      = "HOUGH_UPLOAD_DIR"
	EnvResultDir      = "HOUGH_RESULT_DIR"
	EnvDBPath         = "HOUGH_DB_PATH"
	EnvParamsFile     = "HOUGH_PARAMS_FILE"
	EnvEdgeDetector   = "HOUGH_EDGE_DETECTOR"
	EnvCannyLow       = "HOUGH_CANNY_LOW"
	EnvCannyHigh      = "HOUGH_CANNY_HIGH"
	EnvBlurRadius     = "HOUGH_BLUR_RADIUS"
	EnvRequestTimeout = "HOUGH_REQUEST_TIMEOUT"
	EnvWorkers        = "HOUGH_WORKERS"
	EnvCacheSize      = "HOUGH_CACHE_SIZE"
)

// ErrInvalidValue is returned for unparsable or out-of-range settings.
var ErrInvalidValue = errors.New("invalid configuration value")

// Config is the resolved server configuration.
type Config struct {
	LogLevel       string
	HTTPAddr       string
	UploadDir      string
	ResultDir      string
	DBPath         string
	ParamsFile     string
	EdgeDetector   string
	CannyLow       int
	CannyHigh      int
	BlurRadius     float64
	RequestTimeout time.Duration

	// CacheSize caps the decoded images kept by the MCP server; zero means
	// no limit.
	CacheSize int

	// Hough holds the default detection parameters handed to every request.
	Hough hough.Config
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		HTTPAddr:       ":5000",
		UploadDir:      "uploads",
		ResultDir:      "results",
		DBPath:         "results/hough.db",
		EdgeDetector:   imaging.BackendCanny,
		CannyLow:       imaging.DefaultCannyLow,
		CannyHigh:      imaging.DefaultCannyHigh,
		RequestTimeout: 30 * time.Second,
		CacheSize:      imaging.DefaultCacheSize,
		Hough:          hough.DefaultConfig(),
	}
}

// Load reads .env from the working directory if present, then resolves the
// configuration from the environment.
func Load() (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv resolves the configuration through lookup.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvHTTPAddr, &cfg.HTTPAddr)
	str(EnvUploadDir, &cfg.UploadDir)
	str(EnvResultDir, &cfg.ResultDir)
	str(EnvDBPath, &cfg.DBPath)
	str(EnvParamsFile, &cfg.ParamsFile)
	str(EnvEdgeDetector, &cfg.EdgeDetector)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.EdgeDetector = strings.ToLower(cfg.EdgeDetector)

	if err := intVar(lookup, EnvCannyLow, &cfg.CannyLow); err != nil {
		return nil, err
	}
	if err := intVar(lookup, EnvCannyHigh, &cfg.CannyHigh); err != nil {
		return nil, err
	}
	if err := intVar(lookup, EnvCacheSize, &cfg.CacheSize); err != nil {
		return nil, err
	}
	if v, ok := lookup(EnvBlurRadius); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvBlurRadius, v)
		}
		cfg.BlurRadius = r
	}
	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvRequestTimeout, v)
		}
		cfg.RequestTimeout = d
	}

	if cfg.ParamsFile != "" {
		params, err := LoadParamsFile(cfg.ParamsFile, cfg.Hough)
		if err != nil {
			return nil, err
		}
		cfg.Hough = params
	}
	// The environment wins over the parameter file for the worker count.
	if err := intVar(lookup, EnvWorkers, &cfg.Hough.Workers); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := c.Detector(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %s", ErrInvalidValue, c.RequestTimeout)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must not be negative, got %d", ErrInvalidValue, c.CacheSize)
	}
	return c.Hough.Validate()
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// EdgeSettings returns the edge detector selection.
func (c *Config) EdgeSettings() imaging.EdgeSettings {
	return imaging.EdgeSettings{
		Backend:    c.EdgeDetector,
		Low:        c.CannyLow,
		High:       c.CannyHigh,
		BlurRadius: c.BlurRadius,
	}
}

// Detector builds the configured edge detector. Asking for the OpenCV
// backend in a build without the gocv tag fails with
// imaging.ErrOpenCVUnavailable.
func (c *Config) Detector() (imaging.EdgeDetector, error) {
	return c.EdgeSettings().Detector()
}

func intVar(lookup func(string) (string, bool), key string, dst *int) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v)
	}
	*dst = n
	return nil
}
