// Package main provides the posetrack command: it turns an agent pose log
// and agent-relative object detections into smoothed origin-frame object
// trajectories.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/posetrack/internal/config"
	"github.com/banshee-data/posetrack/internal/monitoring"
	"github.com/banshee-data/posetrack/internal/pipeline"
	"github.com/banshee-data/posetrack/internal/storage/sqlite"
	"github.com/banshee-data/posetrack/internal/version"
)

// Config holds the command-line configuration.
type Config struct {
	InputPath  string
	OutputDir  string
	ConfigPath string
	DBPath     string
	Plots      bool
	Verbose    bool
	ListRuns   int
	Replot     string
	DeleteRun  string
	Version    bool
}

func main() {
	os.Exit(realMain())
}

// realMain runs the command and returns the process exit code, so deferred
// cleanup runs before os.Exit.
func realMain() int {
	cfg := parseFlags()

	if cfg.Version {
		fmt.Println("posetrack", version.String())
		return 0
	}
	monitoring.SetVerbose(cfg.Verbose)

	if cfg.ListRuns > 0 {
		if err := listRuns(os.Stdout, cfg.DBPath, cfg.ListRuns); err != nil {
			log.Printf("List runs failed: %v", err)
			return 1
		}
		return 0
	}

	if cfg.DeleteRun != "" {
		if err := deleteRun(cfg.DBPath, cfg.DeleteRun); err != nil {
			log.Printf("Delete run failed: %v", err)
			return 1
		}
		log.Printf("Deleted run %s", cfg.DeleteRun)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Replot != "" {
		if err := replot(ctx, cfg); err != nil {
			log.Printf("Replot failed: %v", err)
			return 1
		}
		return 0
	}

	if err := run(ctx, cfg); err != nil {
		log.Printf("posetrack failed: %v", err)
		return 1
	}
	return 0
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.InputPath, "input", "data/data.json", "Path to the input document")
	flag.StringVar(&cfg.OutputDir, "output-dir", "data", "Directory for output JSON and plots")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to a tuning config JSON file (defaults when empty)")
	flag.StringVar(&cfg.DBPath, "db", "", "SQLite database to record the run in (disabled when empty)")
	flag.BoolVar(&cfg.Plots, "plots", false, "Write PNG and HTML trajectory plots")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.IntVar(&cfg.ListRuns, "list-runs", 0, "List the N most recent runs in -db and exit")
	flag.StringVar(&cfg.Replot, "replot", "", "Render plots for a stored run ID from -db and exit")
	flag.StringVar(&cfg.DeleteRun, "delete-run", "", "Delete a stored run ID and its trajectories from -db and exit")
	flag.BoolVar(&cfg.Version, "version", false, "Print version and exit")

	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg Config) error {
	tuning := config.DefaultTuningConfig()
	if cfg.ConfigPath != "" {
		loaded, err := config.LoadTuningConfig(cfg.ConfigPath)
		if err != nil {
			return err
		}
		tuning = loaded
		log.Printf("Loaded tuning config from %s", cfg.ConfigPath)
	}

	res, err := pipeline.Run(ctx, pipeline.Options{
		InputPath: cfg.InputPath,
		OutputDir: cfg.OutputDir,
		Tuning:    tuning,
		DBPath:    cfg.DBPath,
		Plots:     cfg.Plots,
	})
	if err != nil {
		return err
	}

	for _, p := range res.Written {
		log.Printf("Wrote %s", p)
	}
	if res.RunID != "" {
		log.Printf("Recorded run %s", res.RunID)
	}
	return nil
}

func replot(ctx context.Context, cfg Config) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("-replot requires -db")
	}
	paths, err := pipeline.Replot(ctx, pipeline.ReplotOptions{
		DBPath:    cfg.DBPath,
		RunID:     cfg.Replot,
		OutputDir: cfg.OutputDir,
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Printf("Wrote %s", p)
	}
	return nil
}

func deleteRun(dbPath, runID string) error {
	if dbPath == "" {
		return fmt.Errorf("-delete-run requires -db")
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	return sqlite.NewRunStore(db).DeleteRun(runID)
}

func listRuns(w io.Writer, dbPath string, limit int) error {
	if dbPath == "" {
		return fmt.Errorf("-list-runs requires -db")
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := sqlite.NewRunStore(db).ListRuns(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tOBJECTS\tSAMPLES\tINPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.RunID,
			time.Unix(0, r.CreatedAt).UTC().Format(time.RFC3339),
			r.ObjectCount, r.SampleCount, r.InputPath)
	}
	return tw.Flush()
}
