package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
)

// paramsFile mirrors hough.Config in YAML. Pointer fields tell an absent key
// from an explicit zero.
type paramsFile struct {
	VoteThreshold   *int    `yaml:"vote_threshold,omitempty"`
	ThetaMin        *int    `yaml:"theta_min,omitempty"`
	ThetaMax        *int    `yaml:"theta_max,omitempty"`
	ThetaStep       *int    `yaml:"theta_step,omitempty"`
	WindowHeight    *int    `yaml:"window_height,omitempty"`
	WindowWidth     *int    `yaml:"window_width,omitempty"`
	ExtensionLength *int    `yaml:"extension_length,omitempty"`
	LineColor       *string `yaml:"line_color,omitempty"`
	LineThickness   *int    `yaml:"line_thickness,omitempty"`
	Workers         *int    `yaml:"workers,omitempty"`
}

// LoadParamsFile reads YAML parameters from path and overlays them on base.
func LoadParamsFile(path string, base hough.Config) (hough.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("failed to open params file: %w", err)
	}
	defer f.Close()

	params, err := DecodeParams(f, base)
	if err != nil {
		return base, fmt.Errorf("params file %s: %w", path, err)
	}
	return params, nil
}

// DecodeParams overlays the YAML document in r on base. Unknown keys are
// rejected. The result is validated.
func DecodeParams(r io.Reader, base hough.Config) (hough.Config, error) {
	var pf paramsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	cfg := base
	setInt := func(src *int, dst *int) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(pf.VoteThreshold, &cfg.VoteThreshold)
	setInt(pf.ThetaMin, &cfg.ThetaMin)
	setInt(pf.ThetaMax, &cfg.ThetaMax)
	setInt(pf.ThetaStep, &cfg.ThetaStep)
	setInt(pf.WindowHeight, &cfg.WindowHeight)
	setInt(pf.WindowWidth, &cfg.WindowWidth)
	setInt(pf.ExtensionLength, &cfg.ExtensionLength)
	setInt(pf.LineThickness, &cfg.LineThickness)
	setInt(pf.Workers, &cfg.Workers)
	if pf.LineColor != nil {
		c, err := hough.ParseColor(*pf.LineColor)
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

// EncodeParams writes cfg as a complete YAML parameter document.
func EncodeParams(w io.Writer, cfg hough.Config) error {
	color := hough.FormatColor(cfg.LineColor)
	pf := paramsFile{
		VoteThreshold:   &cfg.VoteThreshold,
		ThetaMin:        &cfg.ThetaMin,
		ThetaMax:        &cfg.ThetaMax,
		ThetaStep:       &cfg.ThetaStep,
		WindowHeight:    &cfg.WindowHeight,
		WindowWidth:     &cfg.WindowWidth,
		ExtensionLength: &cfg.ExtensionLength,
		LineColor:       &color,
		LineThickness:   &cfg.LineThickness,
		Workers:         &cfg.Workers,
	}

	data, err := yaml.Marshal(&pf)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}
