package tracker

import (
	"fmt"

	"github.com/banshee-data/posetrack/internal/config"
	"github.com/banshee-data/posetrack/internal/orientation"
	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/smoothing"
)

// Config holds the tunable behaviour of an ObjectTracker.
type Config struct {
	FlipTolerance float64         // Margin around π treated as a flip (radians)
	Range         pose.AngleRange // Representation of output orientations
	Filter        smoothing.Filter
	Parallel      bool // Process objects concurrently
	MaxWorkers    int  // Concurrency limit; 0 means GOMAXPROCS
}

// DefaultConfig returns tracker configuration built from the compiled-in
// tuning defaults.
func DefaultConfig() Config {
	cfg, err := ConfigFromTuning(config.DefaultTuningConfig())
	if err != nil {
		// The compiled-in defaults always validate.
		panic(err)
	}
	return cfg
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(tc *config.TuningConfig) (Config, error) {
	r, err := pose.ParseAngleRange(tc.GetOrientationRange())
	if err != nil {
		return Config{}, err
	}
	filter, err := smoothing.New(
		smoothing.Kind(tc.GetSmoothingKind()),
		tc.GetSmoothingWindow(),
		tc.GetSmoothingAlpha(),
		r,
	)
	if err != nil {
		return Config{}, fmt.Errorf("smoothing: %w", err)
	}
	return Config{
		FlipTolerance: tc.GetFlipToleranceRad(),
		Range:         r,
		Filter:        filter,
		Parallel:      tc.GetParallelObjects(),
		MaxWorkers:    tc.GetMaxWorkers(),
	}, nil
}

func (c Config) disambiguator() (*orientation.Disambiguator, error) {
	tol := c.FlipTolerance
	if tol == 0 {
		tol = orientation.DefaultTolerance
	}
	return orientation.NewDisambiguator(tol, c.Range)
}
