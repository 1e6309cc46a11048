package interp

import (
	"fmt"

	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/trajectory"
)

// AlignAgent resamples the x, y and orientation channels of agent
// independently onto queries, producing one agent pose per query time.
func AlignAgent(agent trajectory.AgentTrajectory, queries []float64) (trajectory.AgentTrajectory, error) {
	times := agent.Times()
	xs, ys, thetas := agent.Channels()

	channels := make([][]float64, 0, 3)
	for _, ch := range []struct {
		name   string
		values []float64
	}{
		{"x", xs},
		{"y", ys},
		{"orientation", thetas},
	} {
		out, err := Resample(times, ch.values, queries)
		if err != nil {
			return nil, fmt.Errorf("resample agent %s: %w", ch.name, err)
		}
		channels = append(channels, out)
	}

	aligned := make(trajectory.AgentTrajectory, len(queries))
	for i, q := range queries {
		aligned[i] = pose.TimedPose{
			Time: q,
			Pose: pose.Pose2D{
				X:           channels[0][i],
				Y:           channels[1][i],
				Orientation: channels[2][i],
			},
		}
	}
	return aligned, nil
}
