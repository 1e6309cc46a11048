package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/banshee-data/posetrack/internal/config"
	"github.com/banshee-data/posetrack/internal/fsutil"
	"github.com/banshee-data/posetrack/internal/interp"
	"github.com/banshee-data/posetrack/internal/monitoring"
	"github.com/banshee-data/posetrack/internal/report"
	"github.com/banshee-data/posetrack/internal/storage/sqlite"
	"github.com/banshee-data/posetrack/internal/timeutil"
	"github.com/banshee-data/posetrack/internal/tracker"
	"github.com/banshee-data/posetrack/internal/trajectory"
	"github.com/banshee-data/posetrack/internal/trajio"
	"github.com/banshee-data/posetrack/internal/version"
)

// Plot file names written when Options.Plots is set.
const (
	PlotPNGFile  = "trajectories.png"
	PlotHTMLFile = "trajectories.html"
)

// Options configures one pipeline run.
type Options struct {
	InputPath string
	OutputDir string
	// Tuning may be nil, in which case compiled-in defaults apply.
	Tuning *config.TuningConfig
	// DBPath, when set, stores the run in a SQLite database.
	DBPath string
	// Plots enables the PNG and HTML diagnostic artifacts.
	Plots bool

	FS    fsutil.FileSystem
	Clock timeutil.Clock
}

// Result is the outcome of a successful run.
type Result struct {
	RunID      string
	Aligned    trajectory.AgentTrajectory
	Detections []trajectory.DetectionSet
	Globals    []trajectory.GlobalTrajectory
	// Written lists every artifact path, in write order.
	Written []string
}

// Run executes the pipeline. Outputs are written only after tracking,
// rendering and persistence succeed; the first fatal error is returned and
// leaves neither files nor a stored run behind.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.FS == nil {
		opts.FS = fsutil.OSFileSystem{}
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	tuning := opts.Tuning
	if tuning == nil {
		tuning = config.DefaultTuningConfig()
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("tuning config: %w", err)
	}
	start := opts.Clock.Now()

	in, err := trajio.ReadInput(opts.FS, opts.InputPath)
	if err != nil {
		return nil, err
	}
	objects, err := trajectory.ValidateDetections(in.Detections)
	if err != nil {
		return nil, fmt.Errorf("detections: %w", err)
	}
	monitoring.Logf("read %s: %d agent samples, %d detection instants, %d objects",
		opts.InputPath, len(in.Agent), len(in.Detections), objects)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	aligned, err := interp.AlignAgent(in.Agent, trajectory.DetectionTimes(in.Detections))
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("aligned agent onto %d detection timestamps", len(aligned))

	globals, err := track(ctx, tuning, aligned, in.Detections)
	if err != nil {
		return nil, err
	}

	res := &Result{Aligned: aligned, Detections: in.Detections, Globals: globals}

	// Everything that can fail runs before the first file lands in
	// OutputDir.
	arts, err := render(aligned, in.Detections, globals, opts.Plots)
	if err != nil {
		return nil, err
	}

	var store *sqlite.RunStore
	if opts.DBPath != "" {
		params, err := json.Marshal(tuning)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		db, err := sqlite.Open(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open run store: %w", err)
		}
		defer db.Close()
		store = sqlite.NewRunStore(db)

		run := &sqlite.Run{
			CreatedAt:   start.UnixNano(),
			InputPath:   opts.InputPath,
			ObjectCount: objects,
			SampleCount: len(aligned),
			ParamsJSON:  params,
			ToolVersion: version.String(),
		}
		if err := store.SaveResult(run, aligned, in.Detections, globals); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		res.RunID = run.RunID
	}

	written, err := trajio.WriteArtifacts(opts.FS, opts.OutputDir, arts)
	if err != nil {
		if store != nil {
			if derr := store.DeleteRun(res.RunID); derr != nil {
				monitoring.Logf("discard run %s: %v", res.RunID, derr)
			}
		}
		return nil, err
	}
	res.Written = written
	if res.RunID != "" {
		monitoring.Logf("stored run %s in %s", res.RunID, opts.DBPath)
	}

	monitoring.Logf("wrote %d artifacts to %s in %v", len(res.Written), opts.OutputDir, opts.Clock.Since(start))
	return res, nil
}

// render encodes the JSON artifacts and, when plots is set, the PNG and
// HTML plots, all in memory.
func render(aligned trajectory.AgentTrajectory, detections []trajectory.DetectionSet,
	globals []trajectory.GlobalTrajectory, plots bool) ([]trajio.Artifact, error) {
	arts, err := trajio.RenderOutputs(aligned, detections, globals)
	if err != nil {
		return nil, err
	}
	if !plots {
		return arts, nil
	}

	var pngBuf, htmlBuf bytes.Buffer
	if err := report.RenderPNG(&pngBuf, aligned, globals); err != nil {
		return nil, err
	}
	if err := report.RenderHTML(&htmlBuf, aligned, globals); err != nil {
		return nil, err
	}
	return append(arts,
		trajio.Artifact{Name: PlotPNGFile, Data: pngBuf.Bytes()},
		trajio.Artifact{Name: PlotHTMLFile, Data: htmlBuf.Bytes()},
	), nil
}

func track(ctx context.Context, tuning *config.TuningConfig, aligned trajectory.AgentTrajectory,
	detections []trajectory.DetectionSet) ([]trajectory.GlobalTrajectory, error) {
	defer monitoring.Timed("track")()

	cfg, err := tracker.ConfigFromTuning(tuning)
	if err != nil {
		return nil, fmt.Errorf("tracker config: %w", err)
	}
	t, err := tracker.NewObjectTracker(cfg)
	if err != nil {
		return nil, fmt.Errorf("tracker: %w", err)
	}
	if err := t.Update(aligned, detections); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.ProduceGlobalPoses()
}
