package trajectory

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrAlignment      = errors.New("alignment error")
)

// MalformedInputError reports input that cannot be processed at all:
// series too short to interpolate, inconsistent object cardinality,
// unordered timestamps or non-finite values.
type MalformedInputError struct {
	Reason string
}

// Malformed builds a MalformedInputError from a format string.
func Malformed(format string, args ...interface{}) *MalformedInputError {
	return &MalformedInputError{Reason: fmt.Sprintf(format, args...)}
}

func (e *MalformedInputError) Error() string {
	return "malformed input: " + e.Reason
}

// Is lets errors.Is(err, ErrMalformedInput) match.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// AlignmentError reports that the aligned agent trajectory and the
// detection series do not correspond sample for sample.
type AlignmentError struct {
	AgentLen     int
	DetectionLen int
	// Index is the first sample whose timestamps disagree, or -1 when
	// the lengths differ.
	Index         int
	AgentTime     float64
	DetectionTime float64
}

func (e *AlignmentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("alignment error: agent has %d samples, detections have %d",
			e.AgentLen, e.DetectionLen)
	}
	return fmt.Sprintf("alignment error: sample %d agent time %.9f != detection time %.9f",
		e.Index, e.AgentTime, e.DetectionTime)
}

// Is lets errors.Is(err, ErrAlignment) match.
func (e *AlignmentError) Is(target error) bool {
	return target == ErrAlignment
}
