// Package pose owns the 2D rigid-transform algebra used by the tracker.
//
// Responsibilities: the Pose2D and TimedPose value types, composition of
// a frame-local pose through its parent pose, and angle wrapping.
// Composition is rotate-then-translate:
//
//	x_global = x_agent + x_local*cos(θ_agent) - y_local*sin(θ_agent)
//	y_global = y_agent + x_local*sin(θ_agent) + y_local*cos(θ_agent)
//	θ_global = θ_agent + θ_local
//
// Compose never normalises the resulting orientation; callers pick an
// AngleRange and apply it explicitly.
package pose
