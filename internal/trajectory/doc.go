// Package trajectory holds the batch data model shared by the resampler,
// the tracker and the I/O layer, together with the fatal error taxonomy.
//
// Object identity is ordinal: pose i of every DetectionSet in a run refers
// to the same physical object, so every set in a run must carry the same
// number of poses. ValidateDetections enforces that.
package trajectory
