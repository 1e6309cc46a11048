// Package smoothing suppresses high-frequency noise in composed global
// trajectories.
//
// Every filter is causal and a pure function of its input: output sample
// i depends only on input samples 0..i, and the output always has the
// same length and timestamps as the input. Position channels are averaged
// arithmetically; the orientation channel is averaged on the circle so
// that readings straddling ±π blend along the shortest path.
package smoothing
