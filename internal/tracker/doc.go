// Package tracker turns per-object detections in the agent frame into
// smoothed per-object trajectories in the origin frame.
//
// Responsibilities: holding the aligned agent trajectory and the raw
// detection series for one run, and for every object running orientation
// disambiguation, composition through the agent pose and smoothing.
// Key types: ObjectTracker, Config.
//
// An ObjectTracker is constructed per run and owns copies of its inputs.
// Objects are independent of each other and may be processed
// concurrently; samples within one object are always processed in time
// order.
package tracker
