package pose

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// AngleRange selects the canonical representation for orientations.
type AngleRange int

const (
	// RangeSigned maps angles into [-π, π).
	RangeSigned AngleRange = iota
	// RangeUnsigned maps angles into [0, 2π).
	RangeUnsigned
)

// ParseAngleRange converts a configuration name into an AngleRange.
func ParseAngleRange(name string) (AngleRange, error) {
	switch name {
	case "", "signed":
		return RangeSigned, nil
	case "unsigned":
		return RangeUnsigned, nil
	default:
		return RangeSigned, fmt.Errorf("unknown orientation range %q", name)
	}
}

func (r AngleRange) String() string {
	switch r {
	case RangeSigned:
		return "signed"
	case RangeUnsigned:
		return "unsigned"
	default:
		return fmt.Sprintf("AngleRange(%d)", int(r))
	}
}

// Normalize maps a into r.
func (r AngleRange) Normalize(a float64) float64 {
	if r == RangeUnsigned {
		return NormalizeUnsigned(a)
	}
	return NormalizeAngle(a)
}

// NormalizeAngle wraps a into [-π, π).
func NormalizeAngle(a float64) float64 {
	w := a - twoPi*math.Floor((a+math.Pi)/twoPi)
	// Rounding can land exactly on the open end.
	if w >= math.Pi {
		w -= twoPi
	}
	return w
}

// NormalizeUnsigned wraps a into [0, 2π).
func NormalizeUnsigned(a float64) float64 {
	w := a - twoPi*math.Floor(a/twoPi)
	if w >= twoPi {
		w -= twoPi
	}
	return w
}

// AngleDiff returns the shortest signed rotation from b to a, in [-π, π).
func AngleDiff(a, b float64) float64 {
	return NormalizeAngle(a - b)
}

// Flip rotates a by half a turn and wraps the result into r.
func Flip(a float64, r AngleRange) float64 {
	return r.Normalize(a + math.Pi)
}
