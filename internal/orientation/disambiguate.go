package orientation

import (
	"fmt"
	"math"

	"github.com/banshee-data/posetrack/internal/pose"
)

// DefaultTolerance is the default margin around π, in radians, inside
// which a jump between consecutive readings is treated as a flip.
const DefaultTolerance = 0.4

// Disambiguator holds the flip tolerance and the representation used for
// corrected values.
type Disambiguator struct {
	Tolerance float64
	Range     pose.AngleRange
}

// NewDisambiguator returns a Disambiguator with the given tolerance.
func NewDisambiguator(tolerance float64, r pose.AngleRange) (*Disambiguator, error) {
	if !(tolerance > 0 && tolerance < math.Pi/2) {
		return nil, fmt.Errorf("flip tolerance must be in (0, π/2), got %g", tolerance)
	}
	return &Disambiguator{Tolerance: tolerance, Range: r}, nil
}

// IsFlip reports whether cur looks like prev rotated by a half turn.
func (d *Disambiguator) IsFlip(prev, cur float64) bool {
	diff := math.Abs(pose.AngleDiff(cur, prev))
	return diff >= math.Pi-d.Tolerance
}

// Correct rewrites thetas in place and returns how many readings were
// flipped. Readings that are not flipped are left bit-for-bit unchanged.
func (d *Disambiguator) Correct(thetas []float64) int {
	if len(thetas) < 2 {
		return 0
	}
	flips := 0
	prev := thetas[0]
	for i := 1; i < len(thetas); i++ {
		if d.IsFlip(prev, thetas[i]) {
			thetas[i] = pose.Flip(thetas[i], d.Range)
			flips++
		}
		prev = thetas[i]
	}
	return flips
}

// CorrectSeries applies Correct to the orientation channel of a pose
// series in place.
func (d *Disambiguator) CorrectSeries(series []pose.TimedPose) int {
	thetas := make([]float64, len(series))
	for i, s := range series {
		thetas[i] = s.Pose.Orientation
	}
	flips := d.Correct(thetas)
	for i := range series {
		series[i].Pose.Orientation = thetas[i]
	}
	return flips
}
