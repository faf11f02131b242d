// Package config loads recipe-scan settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jameslewellyn/recipe-scan-tool/internal/autocrop"
	"github.com/jameslewellyn/recipe-scan-tool/internal/ocr"
)

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "RECIPE_SCAN_LOG_LEVEL"

// Config holds the complete tool configuration.
type Config struct {
	Autocrop   AutocropConfig   `toml:"autocrop"`
	Output     OutputConfig     `toml:"output"`
	Processing ProcessingConfig `toml:"processing"`
	OCR        OCRConfig        `toml:"ocr"`
	Logging    LoggingConfig    `toml:"logging"`
}

// AutocropConfig tunes the white-border and grey-margin passes.
type AutocropConfig struct {
	WhiteThreshold   int      `toml:"white_threshold"`
	SkipWhite        bool     `toml:"skip_white"`
	Tolerance        int      `toml:"tolerance"`
	Padding          int      `toml:"padding"`
	MarginRatio      float64  `toml:"margin_ratio"`
	EdgeExclusion    float64  `toml:"edge_exclusion"`
	EdgeExclusionMin int      `toml:"edge_exclusion_min"`
	ScanFraction     float64  `toml:"scan_fraction"`
	MaxScanDistance  int      `toml:"max_scan_distance"`
	SampleBand       int      `toml:"sample_band"`
	ColorSamples     int      `toml:"color_samples"`
	LineSamples      int      `toml:"line_samples"`
	MinKeepFraction  float64  `toml:"min_keep_fraction"`
	FallbackColor    string   `toml:"fallback_color"`
	BorderColor      string   `toml:"border_color"`
	Sides            []string `toml:"sides"`
	KeepOnScanLimit  bool     `toml:"keep_on_scan_limit"`
}

type OutputConfig struct {
	Directory     string `toml:"directory"`
	MediumSize    int    `toml:"medium_size"`
	ThumbnailSize int    `toml:"thumbnail_size"`
	Rotation      int    `toml:"rotation"`
}

type ProcessingConfig struct {
	Workers int `toml:"workers"`
}

type OCRConfig struct {
	Enabled        bool    `toml:"enabled"`
	Language       string  `toml:"language"`
	TessdataPrefix string  `toml:"tessdata_prefix"`
	Contrast       float64 `toml:"contrast"`
	MinConfidence  float64 `toml:"min_confidence"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load reads the configuration from a TOML file over the defaults, applies
// environment overrides and validates the result. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration the notecard scans were tuned
// with.
func DefaultConfig() *Config {
	return &Config{
		Autocrop: AutocropConfig{
			WhiteThreshold:   autocrop.DefaultWhiteThreshold,
			Tolerance:        autocrop.DefaultTolerance,
			Padding:          autocrop.DefaultPadding,
			MarginRatio:      autocrop.DefaultMarginRatioThreshold,
			EdgeExclusion:    autocrop.DefaultEdgeExclusionFraction,
			EdgeExclusionMin: autocrop.DefaultEdgeExclusionMin,
			ScanFraction:     autocrop.DefaultMinScanFraction,
			MaxScanDistance:  autocrop.DefaultMaxScanDistance,
			SampleBand:       autocrop.DefaultSampleBand,
			ColorSamples:     autocrop.DefaultColorSamples,
			LineSamples:      autocrop.DefaultLineSamples,
			MinKeepFraction:  autocrop.DefaultMinKeepFraction,
			FallbackColor:    autocrop.DefaultFallbackColor.Hex(),
			Sides:            []string{"left", "right"},
		},
		Output: OutputConfig{
			MediumSize:    800,
			ThumbnailSize: 200,
		},
		OCR: OCRConfig{
			Language:      "eng",
			Contrast:      30,
			MinConfidence: 0.6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) applyEnv() {
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		c.Logging.Level = strings.ToLower(lvl)
	}
}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	logFormats = []string{"console", "json"}
)

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	a := c.Autocrop
	check(a.WhiteThreshold >= 0 && a.WhiteThreshold <= 255, "autocrop.white_threshold must be 0-255, got %d", a.WhiteThreshold)
	check(a.Tolerance >= 0 && a.Tolerance <= 255, "autocrop.tolerance must be 0-255, got %d", a.Tolerance)
	check(a.Padding >= 0, "autocrop.padding must not be negative, got %d", a.Padding)
	check(a.MarginRatio > 0 && a.MarginRatio <= 1, "autocrop.margin_ratio must be in (0,1], got %g", a.MarginRatio)
	check(a.EdgeExclusion >= 0 && a.EdgeExclusion < 0.5, "autocrop.edge_exclusion must be in [0,0.5), got %g", a.EdgeExclusion)
	check(a.EdgeExclusionMin >= 0, "autocrop.edge_exclusion_min must not be negative, got %d", a.EdgeExclusionMin)
	check(a.ScanFraction > 0 && a.ScanFraction <= 1, "autocrop.scan_fraction must be in (0,1], got %g", a.ScanFraction)
	check(a.MaxScanDistance > 0, "autocrop.max_scan_distance must be positive, got %d", a.MaxScanDistance)
	check(a.SampleBand > 0, "autocrop.sample_band must be positive, got %d", a.SampleBand)
	check(a.ColorSamples > 0, "autocrop.color_samples must be positive, got %d", a.ColorSamples)
	check(a.LineSamples > 0, "autocrop.line_samples must be positive, got %d", a.LineSamples)
	check(a.MinKeepFraction >= 0 && a.MinKeepFraction < 1, "autocrop.min_keep_fraction must be in [0,1), got %g", a.MinKeepFraction)
	if _, err := autocrop.ParseHex(a.FallbackColor); err != nil {
		errs = append(errs, fmt.Errorf("autocrop.fallback_color: %w", err))
	}
	if a.BorderColor != "" {
		if _, err := autocrop.ParseHex(a.BorderColor); err != nil {
			errs = append(errs, fmt.Errorf("autocrop.border_color: %w", err))
		}
	}
	if _, err := ParseSides(a.Sides); err != nil {
		errs = append(errs, fmt.Errorf("autocrop.sides: %w", err))
	}

	o := c.Output
	check(o.MediumSize > 0, "output.medium_size must be positive, got %d", o.MediumSize)
	check(o.ThumbnailSize > 0, "output.thumbnail_size must be positive, got %d", o.ThumbnailSize)
	check(o.Rotation%90 == 0, "output.rotation must be a multiple of 90, got %d", o.Rotation)

	check(c.Processing.Workers >= 0, "processing.workers must not be negative, got %d", c.Processing.Workers)

	check(c.OCR.Contrast >= -100 && c.OCR.Contrast <= 100, "ocr.contrast must be -100 to 100, got %g", c.OCR.Contrast)
	check(c.OCR.MinConfidence >= 0 && c.OCR.MinConfidence <= 1, "ocr.min_confidence must be in [0,1], got %g", c.OCR.MinConfidence)

	check(slices.Contains(logLevels, c.Logging.Level), "logging.level %q is not one of %s", c.Logging.Level, strings.Join(logLevels, ", "))
	check(slices.Contains(logFormats, c.Logging.Format), "logging.format %q is not one of %s", c.Logging.Format, strings.Join(logFormats, ", "))

	return errors.Join(errs...)
}

// ScanConfig converts the autocrop section to the engine's policy. Colours
// that fail to parse are dropped; call Validate first.
func (c *Config) ScanConfig() autocrop.ScanConfig {
	a := c.Autocrop
	sc := autocrop.ScanConfig{
		Tolerance:             uint8(clamp(a.Tolerance, 0, 255)),
		MarginRatioThreshold:  a.MarginRatio,
		EdgeExclusionFraction: a.EdgeExclusion,
		EdgeExclusionMin:      a.EdgeExclusionMin,
		MinScanFraction:       a.ScanFraction,
		MaxScanDistance:       a.MaxScanDistance,
		Padding:               a.Padding,
		SampleBand:            a.SampleBand,
		ColorSamples:          a.ColorSamples,
		LineSamples:           a.LineSamples,
		MinKeepFraction:       a.MinKeepFraction,
		KeepOnScanLimit:       a.KeepOnScanLimit,
	}
	if fb, err := autocrop.ParseHex(a.FallbackColor); err == nil {
		sc.FallbackColor = &fb
	}
	return sc
}

// PipelineConfig converts the autocrop section to a full pipeline
// configuration.
func (c *Config) PipelineConfig() autocrop.PipelineConfig {
	a := c.Autocrop
	pc := autocrop.PipelineConfig{
		WhiteThreshold: uint8(clamp(a.WhiteThreshold, 0, 255)),
		SkipWhite:      a.SkipWhite,
		Scan:           c.ScanConfig(),
	}
	if sides, err := ParseSides(a.Sides); err == nil {
		pc.Sides = sides
	}
	if a.BorderColor != "" {
		if bc, err := autocrop.ParseHex(a.BorderColor); err == nil {
			pc.BorderColor = &bc
		}
	}
	return pc
}

// OCROptions converts the ocr section to recognizer options.
func (c *Config) OCROptions() ocr.Options {
	return ocr.Options{
		Language:       c.OCR.Language,
		TessdataPrefix: c.OCR.TessdataPrefix,
		Contrast:       c.OCR.Contrast,
		MinConfidence:  c.OCR.MinConfidence,
	}
}

// ParseSides converts side names to autocrop sides, preserving order.
// Duplicates are rejected. An empty list is valid and disables the
// grey-margin passes.
func ParseSides(names []string) ([]autocrop.Side, error) {
	sides := make([]autocrop.Side, 0, len(names))
	seen := make(map[autocrop.Side]bool, len(names))
	for _, n := range names {
		s, ok := autocrop.ParseSide(n)
		if !ok {
			return nil, fmt.Errorf("unknown side %q (want left, right, top or bottom)", n)
		}
		if seen[s] {
			return nil, fmt.Errorf("side %q listed twice", n)
		}
		seen[s] = true
		sides = append(sides, s)
	}
	return sides, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
