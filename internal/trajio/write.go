package trajio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/posetrack/internal/fsutil"
	"github.com/banshee-data/posetrack/internal/monitoring"
	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/trajectory"
)

// Artifact is an output file rendered in memory, named relative to the
// output directory.
type Artifact struct {
	Name string
	Data []byte
}

// EncodeAgent writes the aligned agent trajectory as {"robotPose":[...]}.
func EncodeAgent(w io.Writer, agent trajectory.AgentTrajectory) error {
	doc := agentDoc{RobotPose: make([]outTimedPose, len(agent))}
	for i, s := range agent {
		doc.RobotPose[i] = toOutTimed(s)
	}
	return encode(w, doc)
}

// EncodeDetections writes a detection series as {"detections":[...]}.
func EncodeDetections(w io.Writer, ds []trajectory.DetectionSet) error {
	return encode(w, detectionsDoc{Detections: toOutDetections(ds)})
}

// EncodeGlobal writes global trajectories in two layouts: per instant on
// the given timeline, matching the raw detections file, and per object.
func EncodeGlobal(w io.Writer, times []float64, globals []trajectory.GlobalTrajectory) error {
	instants, err := GlobalInstants(times, globals)
	if err != nil {
		return err
	}
	doc := globalDoc{
		Detections: toOutDetections(instants),
		Objects:    make([]outObject, len(globals)),
	}
	for i, g := range globals {
		poses := make([]outTimedPose, len(g.Samples))
		for j, s := range g.Samples {
			poses[j] = toOutTimed(s)
		}
		doc.Objects[i] = outObject{Index: g.ObjectIndex, Poses: poses}
	}
	return encode(w, doc)
}

// GlobalInstants transposes per-object trajectories back into one
// DetectionSet per entry of times. Every trajectory must have one sample
// per instant. With no objects each instant carries an empty pose list.
func GlobalInstants(times []float64, globals []trajectory.GlobalTrajectory) ([]trajectory.DetectionSet, error) {
	out := make([]trajectory.DetectionSet, len(times))
	for i, t := range times {
		out[i] = trajectory.DetectionSet{Time: t, Poses: make([]pose.Pose2D, len(globals))}
	}
	for j, g := range globals {
		if len(g.Samples) != len(times) {
			return nil, trajectory.Malformed("object %d has %d samples, timeline has %d instants",
				g.ObjectIndex, len(g.Samples), len(times))
		}
		for i, s := range g.Samples {
			out[i].Poses[j] = s.Pose
		}
	}
	return out, nil
}

// RenderOutputs encodes the three JSON artifacts without touching the
// filesystem.
func RenderOutputs(agent trajectory.AgentTrajectory, detections []trajectory.DetectionSet,
	globals []trajectory.GlobalTrajectory) ([]Artifact, error) {
	times := trajectory.DetectionTimes(detections)
	files := []struct {
		name   string
		encode func(io.Writer) error
	}{
		{AgentFile, func(w io.Writer) error { return EncodeAgent(w, agent) }},
		{DetectionsFile, func(w io.Writer) error { return EncodeDetections(w, detections) }},
		{GlobalFile, func(w io.Writer) error { return EncodeGlobal(w, times, globals) }},
	}

	arts := make([]Artifact, 0, len(files))
	for _, f := range files {
		var buf bytes.Buffer
		if err := f.encode(&buf); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.name, err)
		}
		arts = append(arts, Artifact{Name: f.name, Data: buf.Bytes()})
	}
	return arts, nil
}

// WriteArtifacts writes arts into dir, creating it if needed, and returns
// the paths written. If a write fails, files already written by this call
// are removed so dir never holds a partial result set.
func WriteArtifacts(fsys fsutil.FileSystem, dir string, arts []Artifact) ([]string, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	written := make([]string, 0, len(arts))
	for _, a := range arts {
		path := filepath.Join(dir, a.Name)
		if err := fsys.WriteFile(path, a.Data, 0o644); err != nil {
			removeAll(fsys, written)
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func removeAll(fsys fsutil.FileSystem, paths []string) {
	for _, p := range paths {
		if err := fsys.Remove(p); err != nil {
			monitoring.Logf("remove partial output %s: %v", p, err)
		}
	}
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
