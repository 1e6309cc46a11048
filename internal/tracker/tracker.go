package tracker

import (
	"math"
	"runtime"

	"github.com/banshee-data/posetrack/internal/orientation"
	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/smoothing"
	"github.com/banshee-data/posetrack/internal/trajectory"
	"golang.org/x/sync/errgroup"
)

// alignmentTolerance bounds the timestamp disagreement accepted between
// an aligned agent sample and its detection (seconds).
const alignmentTolerance = 1e-9

// ObjectTracker composes per-object detections into the origin frame.
type ObjectTracker struct {
	cfg    Config
	disamb *orientation.Disambiguator
	filter smoothing.Filter

	agent      trajectory.AgentTrajectory
	detections []trajectory.DetectionSet
	objects    int
}

// NewObjectTracker constructs a tracker for one run.
func NewObjectTracker(cfg Config) (*ObjectTracker, error) {
	d, err := cfg.disambiguator()
	if err != nil {
		return nil, err
	}
	filter := cfg.Filter
	if filter == nil {
		filter = smoothing.Passthrough{}
	}
	return &ObjectTracker{cfg: cfg, disamb: d, filter: filter}, nil
}

// Update replaces the tracker's working state with an aligned agent
// trajectory and the raw detection series. Both must have one sample per
// detection timestamp, index for index. On error the previous state is
// kept.
func (t *ObjectTracker) Update(aligned trajectory.AgentTrajectory, detections []trajectory.DetectionSet) error {
	if len(aligned) != len(detections) {
		return &trajectory.AlignmentError{
			AgentLen:     len(aligned),
			DetectionLen: len(detections),
			Index:        -1,
		}
	}
	for i := range aligned {
		if math.Abs(aligned[i].Time-detections[i].Time) > alignmentTolerance {
			return &trajectory.AlignmentError{
				AgentLen:      len(aligned),
				DetectionLen:  len(detections),
				Index:         i,
				AgentTime:     aligned[i].Time,
				DetectionTime: detections[i].Time,
			}
		}
	}
	if err := aligned.Validate(); err != nil {
		return err
	}
	objects, err := trajectory.ValidateDetections(detections)
	if err != nil {
		return err
	}

	t.agent = aligned.Clone()
	t.detections = trajectory.CloneDetections(detections)
	t.objects = objects
	return nil
}

// ObjectCount returns the number of tracked objects in the current state.
func (t *ObjectTracker) ObjectCount() int {
	return t.objects
}

// AlignedAgent returns a copy of the stored aligned agent trajectory.
func (t *ObjectTracker) AlignedAgent() trajectory.AgentTrajectory {
	return t.agent.Clone()
}

// Detections returns a copy of the stored raw detection series.
func (t *ObjectTracker) Detections() []trajectory.DetectionSet {
	return trajectory.CloneDetections(t.detections)
}

// ProduceGlobalPoses computes the smoothed origin-frame trajectory of
// every object. It does not modify the tracker, so repeated calls without
// an intervening Update return equal results.
func (t *ObjectTracker) ProduceGlobalPoses() ([]trajectory.GlobalTrajectory, error) {
	results := make([]trajectory.GlobalTrajectory, t.objects)

	if !t.cfg.Parallel || t.objects < 2 {
		for i := range results {
			g, err := t.globalTrajectory(i)
			if err != nil {
				return nil, err
			}
			results[i] = g
		}
		return results, nil
	}

	limit := t.cfg.MaxWorkers
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i := range results {
		g.Go(func() error {
			traj, err := t.globalTrajectory(i)
			if err != nil {
				return err
			}
			results[i] = traj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// globalTrajectory runs disambiguation, composition and smoothing for one
// object. It works on a fresh copy of the object's series.
func (t *ObjectTracker) globalTrajectory(idx int) (trajectory.GlobalTrajectory, error) {
	local := trajectory.ObjectSeries(t.detections, idx)
	t.disamb.CorrectSeries(local)

	composed := make([]pose.TimedPose, len(local))
	for i, s := range local {
		p := pose.Compose(t.agent[i].Pose, s.Pose)
		p.Orientation = t.cfg.Range.Normalize(p.Orientation)
		if !p.IsFinite() {
			return trajectory.GlobalTrajectory{}, trajectory.Malformed(
				"object %d at t=%g composes to a non-finite pose", idx, s.Time)
		}
		composed[i] = pose.TimedPose{Time: s.Time, Pose: p}
	}

	return trajectory.GlobalTrajectory{
		ObjectIndex: idx,
		Samples:     t.filter.Apply(composed),
	}, nil
}
