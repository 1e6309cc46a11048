package trajio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/banshee-data/posetrack/internal/fsutil"
	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/trajectory"
)

// maxInputBytes caps the size of an input document.
var maxInputBytes int64 = 256 << 20

// Input is a decoded input document: the raw agent trajectory on its own
// clock and the detection series on the detection clock.
type Input struct {
	Agent      trajectory.AgentTrajectory
	Detections []trajectory.DetectionSet
}

// ReadInput loads and decodes the input document at path. Documents
// larger than the input limit are rejected without reading them whole.
func ReadInput(fsys fsutil.FileSystem, path string) (*Input, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", path, err)
	}
	defer f.Close()

	in, err := DecodeInput(f)
	if err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	return in, nil
}

// DecodeInput decodes an input document from r.
func DecodeInput(r io.Reader) (*Input, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > maxInputBytes {
		return nil, trajectory.Malformed("input exceeds %d bytes", maxInputBytes)
	}
	return ParseInput(data)
}

// ParseInput decodes an input document. Syntax errors and missing fields
// are reported as malformed input; series semantics (ordering, object
// cardinality) are checked later by the pipeline.
func ParseInput(data []byte) (*Input, error) {
	var doc inputJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, trajectory.Malformed("decode json: %v", err)
	}

	agent := make(trajectory.AgentTrajectory, len(doc.RobotPose))
	for i, r := range doc.RobotPose {
		if r.Time == nil || r.X == nil || r.Y == nil || r.Theta == nil {
			return nil, trajectory.Malformed("robotPose[%d] is missing time, x, y or theta", i)
		}
		agent[i] = pose.TimedPose{
			Time: *r.Time,
			Pose: pose.Pose2D{X: *r.X, Y: *r.Y, Orientation: *r.Theta},
		}
	}

	dets := make([]trajectory.DetectionSet, len(doc.Detections))
	for i, d := range doc.Detections {
		if d.Time == nil {
			return nil, trajectory.Malformed("detections[%d] has no time", i)
		}
		poses := make([]pose.Pose2D, len(d.Poses))
		for j, p := range d.Poses {
			if p.X == nil || p.Y == nil || p.Theta == nil {
				return nil, trajectory.Malformed("detections[%d].poses[%d] is missing x, y or theta", i, j)
			}
			poses[j] = pose.Pose2D{X: *p.X, Y: *p.Y, Orientation: *p.Theta}
		}
		dets[i] = trajectory.DetectionSet{Time: *d.Time, Poses: poses}
	}

	return &Input{Agent: agent, Detections: dets}, nil
}
