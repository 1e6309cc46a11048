package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/posetrack/internal/fsutil"
	"github.com/banshee-data/posetrack/internal/monitoring"
	"github.com/banshee-data/posetrack/internal/report"
	"github.com/banshee-data/posetrack/internal/security"
	"github.com/banshee-data/posetrack/internal/storage/sqlite"
)

// ReplotOptions selects a stored run to render again.
type ReplotOptions struct {
	DBPath    string
	RunID     string
	OutputDir string
	FS        fsutil.FileSystem
}

// Replot renders the plots of a stored run into OutputDir as
// <run>_trajectories.png and <run>_trajectories.html, and returns the
// paths written.
func Replot(ctx context.Context, opts ReplotOptions) ([]string, error) {
	if opts.FS == nil {
		opts.FS = fsutil.OSFileSystem{}
	}
	db, err := sqlite.Open(opts.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	defer db.Close()
	store := sqlite.NewRunStore(db)

	globals, err := store.GetGlobalTrajectories(opts.RunID)
	if err != nil {
		return nil, err
	}
	agent, err := store.GetTrajectory(opts.RunID, sqlite.SeriesAgentAligned, 0)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := opts.FS.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", opts.OutputDir, err)
	}
	stem := security.SanitizeFilename(opts.RunID)
	pngPath := filepath.Join(opts.OutputDir, stem+"_"+PlotPNGFile)
	htmlPath := filepath.Join(opts.OutputDir, stem+"_"+PlotHTMLFile)

	if err := report.SavePNG(opts.FS, pngPath, agent, globals); err != nil {
		return nil, err
	}
	if err := report.SaveHTML(opts.FS, htmlPath, agent, globals); err != nil {
		return nil, err
	}
	monitoring.Logf("replotted run %s (%d objects)", opts.RunID, len(globals))
	return []string{pngPath, htmlPath}, nil
}
