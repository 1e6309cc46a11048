package pose

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Pose2D is a rigid-body pose in an implicit frame. Orientation is in
// radians and may take any value.
type Pose2D struct {
	X           float64
	Y           float64
	Orientation float64
}

// TimedPose is one sample of a trajectory.
type TimedPose struct {
	Time float64 // seconds
	Pose Pose2D
}

// Position returns the translational part of p.
func (p Pose2D) Position() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// IsFinite reports whether every component of p is a finite number.
func (p Pose2D) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Orientation)
}

func (p Pose2D) String() string {
	return fmt.Sprintf("{x=%.4f y=%.4f θ=%.4f}", p.X, p.Y, p.Orientation)
}

// Compose maps local, expressed in the frame of parent, into the frame
// parent itself is expressed in.
func Compose(parent, local Pose2D) Pose2D {
	rot := r2.NewRotation(parent.Orientation, r2.Vec{})
	pos := r2.Add(parent.Position(), rot.Rotate(local.Position()))
	return Pose2D{
		X:           pos.X,
		Y:           pos.Y,
		Orientation: parent.Orientation + local.Orientation,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
