package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/trajectory"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Series names one kind of stored trajectory.
type Series string

const (
	SeriesAgentAligned Series = "agent_aligned"
	SeriesDetectionRaw Series = "detection_raw"
	SeriesGlobal       Series = "global"
)

// agentObjectIndex is the object_index used for the agent series.
const agentObjectIndex = -1

func (s Series) valid() bool {
	switch s {
	case SeriesAgentAligned, SeriesDetectionRaw, SeriesGlobal:
		return true
	}
	return false
}

// Run is one persisted pipeline execution.
type Run struct {
	RunID       string          `json:"run_id"`
	CreatedAt   int64           `json:"created_unix_nanos"`
	InputPath   string          `json:"input_path"`
	ObjectCount int             `json:"object_count"`
	SampleCount int             `json:"sample_count"`
	ParamsJSON  json.RawMessage `json:"params_json,omitempty"`
	ToolVersion string          `json:"tool_version"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return "run_" + uuid.NewString()
}

// RunStore reads and writes runs and their trajectories.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db.DB}
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func insertRun(db execer, run *Run) error {
	var params interface{}
	if len(run.ParamsJSON) > 0 {
		params = string(run.ParamsJSON)
	}
	_, err := db.Exec(`
		INSERT INTO posetrack_runs (
			run_id, created_unix_nanos, input_path, object_count,
			sample_count, params_json, tool_version
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.CreatedAt, run.InputPath, run.ObjectCount,
		run.SampleCount, params, run.ToolVersion,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

// insertSamples stores one trajectory of a run. The agent series ignores
// objectIndex.
func insertSamples(tx *sql.Tx, runID string, series Series, objectIndex int, samples []pose.TimedPose) error {
	if !series.valid() {
		return fmt.Errorf("unknown series %q", series)
	}
	if series == SeriesAgentAligned {
		objectIndex = agentObjectIndex
	}
	stmt, err := tx.Prepare(`
		INSERT INTO posetrack_samples (run_id, series, object_index, seq, t, x, y, theta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for seq, sm := range samples {
		if _, err := stmt.Exec(runID, string(series), objectIndex, seq,
			sm.Time, sm.Pose.X, sm.Pose.Y, sm.Pose.Orientation); err != nil {
			return fmt.Errorf("insert %s sample %d of object %d: %w", series, seq, objectIndex, err)
		}
	}
	return nil
}

// SaveResult persists a run record together with every trajectory of one
// pipeline result, atomically.
func (s *RunStore) SaveResult(run *Run, aligned trajectory.AgentTrajectory,
	detections []trajectory.DetectionSet, globals []trajectory.GlobalTrajectory) error {
	if run.RunID == "" {
		run.RunID = NewRunID()
	}
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		if err := insertRun(tx, run); err != nil {
			return err
		}
		if err := insertSamples(tx, run.RunID, SeriesAgentAligned, agentObjectIndex, aligned); err != nil {
			return err
		}
		for _, g := range globals {
			raw := trajectory.ObjectSeries(detections, g.ObjectIndex)
			if err := insertSamples(tx, run.RunID, SeriesDetectionRaw, g.ObjectIndex, raw); err != nil {
				return err
			}
			if err := insertSamples(tx, run.RunID, SeriesGlobal, g.ObjectIndex, g.Samples); err != nil {
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run %s: %w", run.RunID, err)
		}
		return nil
	})
}

const runColumns = `run_id, created_unix_nanos, input_path, object_count,
		       sample_count, params_json, tool_version`

// GetRun returns a single run by ID.
func (s *RunStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM posetrack_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 returns
// all runs.
func (s *RunStore) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM posetrack_runs
		ORDER BY created_unix_nanos DESC, run_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetTrajectory returns one stored trajectory in sequence order. The
// agent series ignores objectIndex.
func (s *RunStore) GetTrajectory(runID string, series Series, objectIndex int) ([]pose.TimedPose, error) {
	if series == SeriesAgentAligned {
		objectIndex = agentObjectIndex
	}
	rows, err := s.db.Query(`
		SELECT t, x, y, theta FROM posetrack_samples
		WHERE run_id = ? AND series = ? AND object_index = ?
		ORDER BY seq`, runID, string(series), objectIndex)
	if err != nil {
		return nil, fmt.Errorf("query %s trajectory: %w", series, err)
	}
	defer rows.Close()

	var out []pose.TimedPose
	for rows.Next() {
		var sm pose.TimedPose
		if err := rows.Scan(&sm.Time, &sm.Pose.X, &sm.Pose.Y, &sm.Pose.Orientation); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// GetGlobalTrajectories returns every stored global trajectory of a run,
// ordered by object index.
func (s *RunStore) GetGlobalTrajectories(runID string) ([]trajectory.GlobalTrajectory, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}
	out := make([]trajectory.GlobalTrajectory, run.ObjectCount)
	for i := range out {
		samples, err := s.GetTrajectory(runID, SeriesGlobal, i)
		if err != nil {
			return nil, err
		}
		out[i] = trajectory.GlobalTrajectory{ObjectIndex: i, Samples: samples}
	}
	return out, nil
}

// DeleteRun removes a run and, through the foreign key cascade, all of
// its samples.
func (s *RunStore) DeleteRun(runID string) error {
	return retryOnBusy(func() error {
		result, err := s.db.Exec(`DELETE FROM posetrack_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("run %s: %w", runID, ErrNotFound)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var params sql.NullString
	err := row.Scan(&r.RunID, &r.CreatedAt, &r.InputPath, &r.ObjectCount,
		&r.SampleCount, &params, &r.ToolVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if params.Valid {
		r.ParamsJSON = json.RawMessage(params.String)
	}
	return &r, nil
}
