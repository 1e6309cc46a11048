package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// Compiled-in defaults, used by the Get* accessors when a field is unset.
const (
	defaultFlipToleranceRad = 0.4
	defaultSmoothingKind    = "window"
	defaultSmoothingWindow  = 5
	defaultSmoothingAlpha   = 0.5
	defaultOrientationRange = "signed"
	defaultParallelObjects  = true
	defaultMaxWorkers       = 0
)

// TuningConfig holds the tunable parameters of a tracking run. Every field
// is optional; omitted fields fall back to the defaults above, so partial
// configs are safe.
type TuningConfig struct {
	// Orientation disambiguation
	FlipToleranceRad *float64 `json:"flip_tolerance_rad,omitempty"`

	// Smoothing
	SmoothingKind   *string  `json:"smoothing_kind,omitempty"` // "window", "exponential" or "none"
	SmoothingWindow *int     `json:"smoothing_window,omitempty"`
	SmoothingAlpha  *float64 `json:"smoothing_alpha,omitempty"`

	// Output representation of orientations: "signed" [-π, π) or "unsigned" [0, 2π)
	OrientationRange *string `json:"orientation_range,omitempty"`

	// Per-object concurrency
	ParallelObjects *bool `json:"parallel_objects,omitempty"`
	MaxWorkers      *int  `json:"max_workers,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated
// from the compiled-in defaults.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		FlipToleranceRad: ptrFloat64(defaultFlipToleranceRad),
		SmoothingKind:    ptrString(defaultSmoothingKind),
		SmoothingWindow:  ptrInt(defaultSmoothingWindow),
		SmoothingAlpha:   ptrFloat64(defaultSmoothingAlpha),
		OrientationRange: ptrString(defaultOrientationRange),
		ParallelObjects:  ptrBool(defaultParallelObjects),
		MaxWorkers:       ptrInt(defaultMaxWorkers),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseTuningConfig(data)
}

// ParseTuningConfig decodes and validates a JSON tuning document.
func ParseTuningConfig(data []byte) (*TuningConfig, error) {
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,       // from cmd/posetrack/
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.FlipToleranceRad != nil {
		v := *c.FlipToleranceRad
		if !(v > 0 && v < math.Pi/2) {
			return fmt.Errorf("flip_tolerance_rad must be in (0, π/2), got %f", v)
		}
	}

	if c.SmoothingKind != nil {
		switch *c.SmoothingKind {
		case "window", "exponential", "none":
		default:
			return fmt.Errorf("smoothing_kind must be window, exponential or none, got %q", *c.SmoothingKind)
		}
	}

	if c.SmoothingWindow != nil && *c.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be at least 1, got %d", *c.SmoothingWindow)
	}

	if c.SmoothingAlpha != nil {
		if a := *c.SmoothingAlpha; !(a > 0 && a <= 1) {
			return fmt.Errorf("smoothing_alpha must be in (0, 1], got %f", a)
		}
	}

	if c.OrientationRange != nil {
		switch *c.OrientationRange {
		case "signed", "unsigned":
		default:
			return fmt.Errorf("orientation_range must be signed or unsigned, got %q", *c.OrientationRange)
		}
	}

	if c.MaxWorkers != nil && *c.MaxWorkers < 0 {
		return fmt.Errorf("max_workers must be non-negative, got %d", *c.MaxWorkers)
	}

	return nil
}

// GetFlipToleranceRad returns the flip_tolerance_rad value or the default.
func (c *TuningConfig) GetFlipToleranceRad() float64 {
	if c.FlipToleranceRad == nil {
		return defaultFlipToleranceRad
	}
	return *c.FlipToleranceRad
}

// GetSmoothingKind returns the smoothing_kind value or the default.
func (c *TuningConfig) GetSmoothingKind() string {
	if c.SmoothingKind == nil || *c.SmoothingKind == "" {
		return defaultSmoothingKind
	}
	return *c.SmoothingKind
}

// GetSmoothingWindow returns the smoothing_window value or the default.
func (c *TuningConfig) GetSmoothingWindow() int {
	if c.SmoothingWindow == nil {
		return defaultSmoothingWindow
	}
	return *c.SmoothingWindow
}

// GetSmoothingAlpha returns the smoothing_alpha value or the default.
func (c *TuningConfig) GetSmoothingAlpha() float64 {
	if c.SmoothingAlpha == nil {
		return defaultSmoothingAlpha
	}
	return *c.SmoothingAlpha
}

// GetOrientationRange returns the orientation_range value or the default.
func (c *TuningConfig) GetOrientationRange() string {
	if c.OrientationRange == nil || *c.OrientationRange == "" {
		return defaultOrientationRange
	}
	return *c.OrientationRange
}

// GetParallelObjects returns the parallel_objects value or the default.
func (c *TuningConfig) GetParallelObjects() bool {
	if c.ParallelObjects == nil {
		return defaultParallelObjects
	}
	return *c.ParallelObjects
}

// GetMaxWorkers returns the max_workers value or the default (0 = GOMAXPROCS).
func (c *TuningConfig) GetMaxWorkers() int {
	if c.MaxWorkers == nil {
		return defaultMaxWorkers
	}
	return *c.MaxWorkers
}
