package smoothing

import (
	"fmt"

	"github.com/banshee-data/posetrack/internal/pose"
	"gonum.org/v1/gonum/stat"
)

// Kind names a filter implementation in configuration.
type Kind string

const (
	KindWindow      Kind = "window"
	KindExponential Kind = "exponential"
	KindNone        Kind = "none"
)

// Filter smooths a pose series.
type Filter interface {
	Apply(samples []pose.TimedPose) []pose.TimedPose
}

// New builds the filter named by kind.
func New(kind Kind, window int, alpha float64, r pose.AngleRange) (Filter, error) {
	switch kind {
	case KindWindow, "":
		if window < 1 {
			return nil, fmt.Errorf("smoothing window must be >= 1, got %d", window)
		}
		return &MovingAverage{Window: window, Range: r}, nil
	case KindExponential:
		if !(alpha > 0 && alpha <= 1) {
			return nil, fmt.Errorf("smoothing alpha must be in (0, 1], got %g", alpha)
		}
		return &Exponential{Alpha: alpha, Range: r}, nil
	case KindNone:
		return Passthrough{}, nil
	default:
		return nil, fmt.Errorf("unknown smoothing kind %q", kind)
	}
}

// MovingAverage averages each sample with up to Window-1 preceding
// samples. The first Window-1 outputs use the shorter history available.
type MovingAverage struct {
	Window int
	Range  pose.AngleRange
}

// Apply implements Filter.
func (m *MovingAverage) Apply(samples []pose.TimedPose) []pose.TimedPose {
	n := len(samples)
	out := make([]pose.TimedPose, n)
	if n == 0 {
		return out
	}
	window := m.Window
	if window < 1 {
		window = 1
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	thetas := make([]float64, n)
	for i, s := range samples {
		xs[i] = s.Pose.X
		ys[i] = s.Pose.Y
		thetas[i] = s.Pose.Orientation
	}

	for i := range samples {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		out[i] = pose.TimedPose{
			Time: samples[i].Time,
			Pose: pose.Pose2D{
				X:           stat.Mean(xs[lo:i+1], nil),
				Y:           stat.Mean(ys[lo:i+1], nil),
				Orientation: m.Range.Normalize(stat.CircularMean(thetas[lo:i+1], nil)),
			},
		}
	}
	return out
}

// Exponential is an exponential moving average. Alpha is the weight of
// the newest sample: 1 follows the input exactly, values near 0 smooth
// heavily.
type Exponential struct {
	Alpha float64
	Range pose.AngleRange
}

// Apply implements Filter.
func (e *Exponential) Apply(samples []pose.TimedPose) []pose.TimedPose {
	out := make([]pose.TimedPose, len(samples))
	if len(samples) == 0 {
		return out
	}

	prev := samples[0].Pose
	prev.Orientation = e.Range.Normalize(prev.Orientation)
	out[0] = pose.TimedPose{Time: samples[0].Time, Pose: prev}

	a := e.Alpha
	for i := 1; i < len(samples); i++ {
		cur := samples[i].Pose
		next := pose.Pose2D{
			X:           prev.X + a*(cur.X-prev.X),
			Y:           prev.Y + a*(cur.Y-prev.Y),
			Orientation: e.Range.Normalize(prev.Orientation + a*pose.AngleDiff(cur.Orientation, prev.Orientation)),
		}
		out[i] = pose.TimedPose{Time: samples[i].Time, Pose: next}
		prev = next
	}
	return out
}

// Passthrough copies its input unchanged.
type Passthrough struct{}

// Apply implements Filter.
func (Passthrough) Apply(samples []pose.TimedPose) []pose.TimedPose {
	out := make([]pose.TimedPose, len(samples))
	copy(out, samples)
	return out
}
