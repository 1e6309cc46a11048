// Package sqlite persists pipeline runs and their trajectories in a
// SQLite database.
//
// Each run gets one row in posetrack_runs. Its trajectories are stored
// sample by sample in posetrack_samples, keyed by series:
//
//	agent_aligned  the agent trajectory resampled onto detection times
//	detection_raw  the raw agent-frame detections, one object per index
//	global         the smoothed origin-frame trajectory per object
//
// The schema is managed with golang-migrate from migrations embedded in
// the binary.
package sqlite
