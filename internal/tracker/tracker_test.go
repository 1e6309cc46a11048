package tracker

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/smoothing"
	"github.com/banshee-data/posetrack/internal/trajectory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario builds n aligned samples of an agent driving along +x while
// turning slowly, with two objects seen at fixed agent-frame offsets.
func scenario(n int) (trajectory.AgentTrajectory, []trajectory.DetectionSet) {
	agent := make(trajectory.AgentTrajectory, n)
	dets := make([]trajectory.DetectionSet, n)
	for i := 0; i < n; i++ {
		ts := 0.1 * float64(i)
		agent[i] = pose.TimedPose{
			Time: ts,
			Pose: pose.Pose2D{X: ts, Y: 0, Orientation: 0.05 * ts},
		}
		dets[i] = trajectory.DetectionSet{
			Time: ts,
			Poses: []pose.Pose2D{
				{X: 2, Y: 0, Orientation: 0.1},
				{X: 0, Y: -1, Orientation: -1.2},
			},
		}
	}
	return agent, dets
}

func newTracker(t *testing.T, cfg Config) *ObjectTracker {
	t.Helper()
	tr, err := NewObjectTracker(cfg)
	require.NoError(t, err)
	return tr
}

func rawConfig() Config {
	return Config{FlipTolerance: 0.4, Filter: smoothing.Passthrough{}}
}

func TestUpdate_LengthMismatch(t *testing.T) {
	t.Parallel()

	agent, dets := scenario(5)
	tr := newTracker(t, rawConfig())

	err := tr.Update(agent[:4], dets)
	require.Error(t, err)
	assert.True(t, errors.Is(err, trajectory.ErrAlignment))

	var ae *trajectory.AlignmentError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 4, ae.AgentLen)
	assert.Equal(t, 5, ae.DetectionLen)
	assert.Equal(t, -1, ae.Index)
}

func TestUpdate_EqualLengthsPassAlignment(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 6; n++ {
		agent, dets := scenario(n)
		tr := newTracker(t, rawConfig())
		assert.NoError(t, tr.Update(agent, dets), "n=%d", n)
	}
}

func TestUpdate_TimestampMismatch(t *testing.T) {
	t.Parallel()

	agent, dets := scenario(3)
	agent[2].Time += 0.05
	tr := newTracker(t, rawConfig())

	err := tr.Update(agent, dets)
	var ae *trajectory.AlignmentError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 2, ae.Index)
}

func TestUpdate_CardinalityMismatchIsMalformed(t *testing.T) {
	t.Parallel()

	agent, dets := scenario(3)
	dets[1].Poses = dets[1].Poses[:1]
	tr := newTracker(t, rawConfig())

	err := tr.Update(agent, dets)
	assert.ErrorIs(t, err, trajectory.ErrMalformedInput)
}

func TestUpdate_FailureKeepsPreviousState(t *testing.T) {
	t.Parallel()

	agent, dets := scenario(4)
	tr := newTracker(t, rawConfig())
	require.NoError(t, tr.Update(agent, dets))
	before, err := tr.ProduceGlobalPoses()
	require.NoError(t, err)

	require.Error(t, tr.Update(agent[:1], dets))
	after, err := tr.ProduceGlobalPoses()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, after))
}

func TestUpdate_InputsAreNotAliased(t *testing.T) {
	t.Parallel()

	agent, dets := scenario(3)
	tr := newTracker(t, rawConfig())
	require.NoError(t, tr.Update(agent, dets))

	agent[0].Pose.X = 1000
	dets[0].Poses[0].X = 1000

	assert.Equal(t, 0.0, tr.AlignedAgent()[0].Pose.X)
	assert.Equal(t, 2.0, tr.Detections()[0].Poses[0].X)
}

func TestProduceGlobalPoses_Composition(t *testing.T) {
	t.Parallel()

	agent := trajectory.AgentTrajectory{
		{Time: 0, Pose: pose.Pose2D{}},
		{Time: 1, Pose: pose.Pose2D{X: 1, Y: 1, Orientation: math.Pi / 2}},
	}
	dets := []trajectory.DetectionSet{
		{Time: 0, Poses: []pose.Pose2D{{X: 1, Y: 2, Orientation: 0.3}}},
		{Time: 1, Poses: []pose.Pose2D{{X: 1, Y: 0, Orientation: 0.3}}},
	}
	tr := newTracker(t, rawConfig())
	require.NoError(t, tr.Update(agent, dets))

	got, err := tr.ProduceGlobalPoses()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Samples, 2)

	s0 := got[0].Samples[0]
	assert.Equal(t, 0.0, s0.Time)
	assert.InDelta(t, 1.0, s0.Pose.X, 1e-12)
	assert.InDelta(t, 2.0, s0.Pose.Y, 1e-12)
	assert.InDelta(t, 0.3, s0.Pose.Orientation, 1e-12)

	s1 := got[0].Samples[1]
	assert.InDelta(t, 1.0, s1.Pose.X, 1e-12)
	assert.InDelta(t, 2.0, s1.Pose.Y, 1e-12)
	assert.InDelta(t, math.Pi/2+0.3, s1.Pose.Orientation, 1e-12)
}

func TestProduceGlobalPoses_CorrectsFlipBeforeComposing(t *testing.T) {
	t.Parallel()

	agent := trajectory.AgentTrajectory{
		{Time: 0, Pose: pose.Pose2D{Orientation: 1}},
		{Time: 1, Pose: pose.Pose2D{Orientation: 1}},
		{Time: 2, Pose: pose.Pose2D{Orientation: 1}},
	}
	dets := []trajectory.DetectionSet{
		{Time: 0, Poses: []pose.Pose2D{{Orientation: 0.0}}},
		{Time: 1, Poses: []pose.Pose2D{{Orientation: 3.05}}},
		{Time: 2, Poses: []pose.Pose2D{{Orientation: 0.02}}},
	}
	tr := newTracker(t, rawConfig())
	require.NoError(t, tr.Update(agent, dets))

	got, err := tr.ProduceGlobalPoses()
	require.NoError(t, err)
	th := got[0].Samples
	assert.InDelta(t, 1.0, th[0].Pose.Orientation, 1e-12)
	assert.InDelta(t, 1+3.05-math.Pi, th[1].Pose.Orientation, 1e-12)
	assert.InDelta(t, 1.02, th[2].Pose.Orientation, 1e-12)
}

func TestProduceGlobalPoses_Idempotent(t *testing.T) {
	t.Parallel()

	for _, parallel := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.Parallel = parallel
		tr := newTracker(t, cfg)

		agent, dets := scenario(40)
		dets[7].Poses[0].Orientation += math.Pi
		require.NoError(t, tr.Update(agent, dets))

		first, err := tr.ProduceGlobalPoses()
		require.NoError(t, err)
		second, err := tr.ProduceGlobalPoses()
		require.NoError(t, err)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("parallel=%v: second call differs (-first +second):\n%s", parallel, diff)
		}
	}
}

func TestProduceGlobalPoses_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	agent, dets := scenario(25)
	for i := range dets {
		for j := 0; j < 4; j++ {
			dets[i].Poses = append(dets[i].Poses, pose.Pose2D{
				X:           float64(j),
				Y:           0.3 * float64(i),
				Orientation: 0.2*float64(j) + 0.01*float64(i),
			})
		}
	}

	seqCfg := DefaultConfig()
	seqCfg.Parallel = false
	parCfg := DefaultConfig()
	parCfg.Parallel = true
	parCfg.MaxWorkers = 2

	seq := newTracker(t, seqCfg)
	par := newTracker(t, parCfg)
	require.NoError(t, seq.Update(agent, dets))
	require.NoError(t, par.Update(agent, dets))

	a, err := seq.ProduceGlobalPoses()
	require.NoError(t, err)
	b, err := par.ProduceGlobalPoses()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(a, b))
	for i, g := range b {
		assert.Equal(t, i, g.ObjectIndex)
	}
}

func TestProduceGlobalPoses_SmoothingKeepsLength(t *testing.T) {
	t.Parallel()

	agent, dets := scenario(12)
	for _, w := range []int{1, 3, 12} {
		cfg := rawConfig()
		cfg.Filter = &smoothing.MovingAverage{Window: w}
		tr := newTracker(t, cfg)
		require.NoError(t, tr.Update(agent, dets))

		got, err := tr.ProduceGlobalPoses()
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, g := range got {
			assert.Len(t, g.Samples, 12, "window %d", w)
		}
	}
}

func TestProduceGlobalPoses_NormalizesOrientation(t *testing.T) {
	t.Parallel()

	agent := trajectory.AgentTrajectory{{Time: 0, Pose: pose.Pose2D{Orientation: 3}}}
	dets := []trajectory.DetectionSet{{Time: 0, Poses: []pose.Pose2D{{Orientation: 3}}}}

	for _, r := range []pose.AngleRange{pose.RangeSigned, pose.RangeUnsigned} {
		cfg := rawConfig()
		cfg.Range = r
		tr := newTracker(t, cfg)
		require.NoError(t, tr.Update(agent, dets))
		got, err := tr.ProduceGlobalPoses()
		require.NoError(t, err)
		assert.InDelta(t, r.Normalize(6), got[0].Samples[0].Pose.Orientation, 1e-12)
	}
}

func TestProduceGlobalPoses_OverflowIsMalformed(t *testing.T) {
	t.Parallel()

	agent := trajectory.AgentTrajectory{{Time: 0, Pose: pose.Pose2D{X: math.MaxFloat64}}}
	dets := []trajectory.DetectionSet{{Time: 0, Poses: []pose.Pose2D{{X: math.MaxFloat64}}}}
	tr := newTracker(t, rawConfig())
	require.NoError(t, tr.Update(agent, dets))

	_, err := tr.ProduceGlobalPoses()
	assert.ErrorIs(t, err, trajectory.ErrMalformedInput)
}

func TestProduceGlobalPoses_BeforeUpdate(t *testing.T) {
	t.Parallel()

	tr := newTracker(t, rawConfig())
	got, err := tr.ProduceGlobalPoses()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, tr.ObjectCount())
}

func TestIndependentTrackers(t *testing.T) {
	t.Parallel()

	agentA, detsA := scenario(5)
	agentB, detsB := scenario(8)
	a := newTracker(t, rawConfig())
	b := newTracker(t, rawConfig())
	require.NoError(t, a.Update(agentA, detsA))
	require.NoError(t, b.Update(agentB, detsB))

	ga, err := a.ProduceGlobalPoses()
	require.NoError(t, err)
	assert.Len(t, ga[0].Samples, 5)
	assert.Len(t, a.AlignedAgent(), 5)
	assert.Len(t, b.AlignedAgent(), 8)
}

func TestNewObjectTracker_BadTolerance(t *testing.T) {
	t.Parallel()

	_, err := NewObjectTracker(Config{FlipTolerance: 2})
	assert.Error(t, err)
}
