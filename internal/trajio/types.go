package trajio

import (
	"github.com/banshee-data/posetrack/internal/pose"
	"github.com/banshee-data/posetrack/internal/trajectory"
)

// Output file names.
const (
	AgentFile      = "robot_poses.json"
	DetectionsFile = "detections.json"
	GlobalFile     = "detections_output.json"
)

// timedPoseJSON is one {time,x,y,theta} record. Pointers let the decoder
// tell a missing field from a zero value.
type timedPoseJSON struct {
	Time  *float64 `json:"time"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Theta *float64 `json:"theta"`
}

type poseJSON struct {
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Theta *float64 `json:"theta"`
}

type detectionJSON struct {
	Time  *float64   `json:"time"`
	Poses []poseJSON `json:"poses"`
}

type inputJSON struct {
	RobotPose  []timedPoseJSON `json:"robotPose"`
	Detections []detectionJSON `json:"detections"`
}

// Output records are written with plain values.

type outTimedPose struct {
	Time  float64 `json:"time"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

type outPose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

type outDetection struct {
	Time  float64   `json:"time"`
	Poses []outPose `json:"poses"`
}

type outObject struct {
	Index int            `json:"index"`
	Poses []outTimedPose `json:"poses"`
}

type agentDoc struct {
	RobotPose []outTimedPose `json:"robotPose"`
}

type detectionsDoc struct {
	Detections []outDetection `json:"detections"`
}

type globalDoc struct {
	Detections []outDetection `json:"detections"`
	Objects    []outObject    `json:"objects"`
}

func toOutTimed(s pose.TimedPose) outTimedPose {
	return outTimedPose{Time: s.Time, X: s.Pose.X, Y: s.Pose.Y, Theta: s.Pose.Orientation}
}

func toOutPose(p pose.Pose2D) outPose {
	return outPose{X: p.X, Y: p.Y, Theta: p.Orientation}
}

func toOutDetections(ds []trajectory.DetectionSet) []outDetection {
	out := make([]outDetection, len(ds))
	for i, d := range ds {
		poses := make([]outPose, len(d.Poses))
		for j, p := range d.Poses {
			poses[j] = toOutPose(p)
		}
		out[i] = outDetection{Time: d.Time, Poses: poses}
	}
	return out
}
