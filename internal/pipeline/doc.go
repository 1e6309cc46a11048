// Package pipeline runs one complete batch: read the input document,
// resample the agent onto the detection clock, track every object into the
// origin frame, write the JSON artifacts, and optionally store the run and
// render diagnostic plots.
package pipeline
