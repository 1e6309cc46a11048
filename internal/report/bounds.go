package report

import (
	"math"

	"github.com/banshee-data/posetrack/internal/trajectory"
)

// Bounds is an axis-aligned plotting extent in metres.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// fallbackBounds is used when the data has no area to frame.
var fallbackBounds = Bounds{MinX: 0, MaxX: 25, MinY: 0, MaxY: 25}

const (
	minPad      = 0.5
	padFraction = 0.02
	minAspect   = 0.25
	maxAspect   = 4.0
)

// DataBounds returns the extent of every agent and object position.
// Non-finite coordinates are skipped.
func DataBounds(agent trajectory.AgentTrajectory, globals []trajectory.GlobalTrajectory) Bounds {
	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	add := func(x, y float64) {
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return
		}
		b.MinX = math.Min(b.MinX, x)
		b.MaxX = math.Max(b.MaxX, x)
		b.MinY = math.Min(b.MinY, y)
		b.MaxY = math.Max(b.MaxY, y)
	}
	for _, s := range agent {
		add(s.Pose.X, s.Pose.Y)
	}
	for _, g := range globals {
		for _, s := range g.Samples {
			add(s.Pose.X, s.Pose.Y)
		}
	}
	return b
}

// hasArea reports whether b spans a positive extent on both axes.
func (b Bounds) hasArea() bool {
	return b.MinX < b.MaxX && b.MinY < b.MaxY
}

// Padded widens each axis by max(0.5 m, 2% of its span). Bounds with no
// area are replaced by a 25 m square before padding.
func (b Bounds) Padded() Bounds {
	if !b.hasArea() {
		b = fallbackBounds
	}
	padX := math.Max(minPad, padFraction*(b.MaxX-b.MinX))
	padY := math.Max(minPad, padFraction*(b.MaxY-b.MinY))
	return Bounds{
		MinX: b.MinX - padX, MaxX: b.MaxX + padX,
		MinY: b.MinY - padY, MaxY: b.MaxY + padY,
	}
}

// Aspect returns the width/height ratio of the padded bounds, clamped to
// [0.25, 4]. Bounds with no area have aspect 1.
func (b Bounds) Aspect() float64 {
	if !b.hasArea() {
		return 1
	}
	p := b.Padded()
	ratio := (p.MaxX - p.MinX) / math.Max(1e-9, p.MaxY-p.MinY)
	return math.Max(minAspect, math.Min(maxAspect, ratio))
}
