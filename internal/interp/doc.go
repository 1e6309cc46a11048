// Package interp resamples irregularly timed scalar series onto a target
// clock by piecewise-linear interpolation.
//
// Queries outside the source span are extrapolated along the nearest
// boundary segment rather than clamped. Repeated source timestamps keep
// the later sample. Orientation channels are treated as plain scalars:
// no angle unwrapping is performed, so a source series that crosses the
// ±π branch cut between two samples interpolates through zero.
package interp
