package trajectory

import (
	"math"

	"github.com/banshee-data/posetrack/internal/pose"
)

// AgentTrajectory is the time-ordered pose series of the agent relative
// to the origin frame.
type AgentTrajectory []pose.TimedPose

// DetectionSet holds, at one instant, the poses of every tracked object
// relative to the agent frame. Index in Poses is the object identity.
type DetectionSet struct {
	Time  float64
	Poses []pose.Pose2D
}

// GlobalTrajectory is one object's pose series in the origin frame.
type GlobalTrajectory struct {
	ObjectIndex int
	Samples     []pose.TimedPose
}

// Times returns the timestamps of a.
func (a AgentTrajectory) Times() []float64 {
	out := make([]float64, len(a))
	for i, s := range a {
		out[i] = s.Time
	}
	return out
}

// Channels splits a into its x, y and orientation series.
func (a AgentTrajectory) Channels() (xs, ys, thetas []float64) {
	xs = make([]float64, len(a))
	ys = make([]float64, len(a))
	thetas = make([]float64, len(a))
	for i, s := range a {
		xs[i] = s.Pose.X
		ys[i] = s.Pose.Y
		thetas[i] = s.Pose.Orientation
	}
	return xs, ys, thetas
}

// Clone returns a deep copy of a.
func (a AgentTrajectory) Clone() AgentTrajectory {
	if a == nil {
		return nil
	}
	out := make(AgentTrajectory, len(a))
	copy(out, a)
	return out
}

// Validate checks that a is time-ordered and finite.
func (a AgentTrajectory) Validate() error {
	for i, s := range a {
		if !isFinite(s.Time) || !s.Pose.IsFinite() {
			return Malformed("agent sample %d is not finite", i)
		}
		if i > 0 && s.Time < a[i-1].Time {
			return Malformed("agent sample %d at t=%g precedes t=%g", i, s.Time, a[i-1].Time)
		}
	}
	return nil
}

// DetectionTimes returns the timestamps of ds.
func DetectionTimes(ds []DetectionSet) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.Time
	}
	return out
}

// ValidateDetections checks that ds is time-ordered, finite and that every
// set carries the same number of objects. It returns that object count.
func ValidateDetections(ds []DetectionSet) (int, error) {
	if len(ds) == 0 {
		return 0, nil
	}
	count := len(ds[0].Poses)
	for i, d := range ds {
		if len(d.Poses) != count {
			return 0, Malformed("detection %d at t=%g has %d objects, expected %d",
				i, d.Time, len(d.Poses), count)
		}
		if !isFinite(d.Time) {
			return 0, Malformed("detection %d has a non-finite timestamp", i)
		}
		if i > 0 && d.Time < ds[i-1].Time {
			return 0, Malformed("detection %d at t=%g precedes t=%g", i, d.Time, ds[i-1].Time)
		}
		for j, p := range d.Poses {
			if !p.IsFinite() {
				return 0, Malformed("detection %d object %d is not finite", i, j)
			}
		}
	}
	return count, nil
}

// CloneDetections returns a deep copy of ds.
func CloneDetections(ds []DetectionSet) []DetectionSet {
	if ds == nil {
		return nil
	}
	out := make([]DetectionSet, len(ds))
	for i, d := range ds {
		poses := make([]pose.Pose2D, len(d.Poses))
		copy(poses, d.Poses)
		out[i] = DetectionSet{Time: d.Time, Poses: poses}
	}
	return out
}

// ObjectSeries extracts object idx from every set in ds as a time series
// in the agent frame.
func ObjectSeries(ds []DetectionSet, idx int) []pose.TimedPose {
	out := make([]pose.TimedPose, len(ds))
	for i, d := range ds {
		out[i] = pose.TimedPose{Time: d.Time, Pose: d.Poses[idx]}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
