// Package orientation corrects spurious half-turn flips in per-object
// orientation readings.
//
// The estimator that produces object poses cannot tell the front of an
// object from its back, so a reading occasionally comes back rotated by
// roughly π relative to its neighbours. Disambiguator walks a series
// once, forward in time, comparing each reading against the previous
// corrected value and folding it back by π when the shortest angular
// difference lands within Tolerance of π.
//
// Known limitations of the single forward pass:
//   - The first reading sets the polarity for the whole series. If it is
//     itself flipped, every corrected value stays flipped.
//   - A genuine rotation of about π between two consecutive samples (for
//     instance across a long detection gap) is folded back as if it were
//     a flip.
//
// Neither case is an error; the corrected series is a best-effort value.
package orientation
