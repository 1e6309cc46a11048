package interp

import (
	"math"

	"github.com/banshee-data/posetrack/internal/trajectory"
	"gonum.org/v1/gonum/interp"
)

// Linear is a piecewise-linear predictor with linear extrapolation.
type Linear struct {
	fit interp.PiecewiseLinear
	xs  []float64
	ys  []float64
}

// NewLinear fits a predictor to a source series. times must be
// non-decreasing and hold at least two samples.
func NewLinear(times, values []float64) (*Linear, error) {
	if len(times) != len(values) {
		return nil, trajectory.Malformed("series has %d timestamps but %d values", len(times), len(values))
	}
	if len(times) < 2 {
		return nil, trajectory.Malformed("series needs at least 2 points to interpolate, got %d", len(times))
	}

	xs := make([]float64, 0, len(times))
	ys := make([]float64, 0, len(values))
	for i, t := range times {
		v := values[i]
		if math.IsNaN(t) || math.IsInf(t, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, trajectory.Malformed("series point %d is not finite", i)
		}
		n := len(xs)
		if n > 0 {
			if t < xs[n-1] {
				return nil, trajectory.Malformed("series time %g at index %d precedes %g", t, i, xs[n-1])
			}
			if t == xs[n-1] {
				ys[n-1] = v
				continue
			}
		}
		xs = append(xs, t)
		ys = append(ys, v)
	}

	l := &Linear{xs: xs, ys: ys}
	if len(xs) >= 2 {
		// Fit panics on unordered input; xs is strictly increasing here.
		if err := l.fit.Fit(xs, ys); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// At returns the interpolated value at t.
func (l *Linear) At(t float64) float64 {
	n := len(l.xs)
	if n == 1 {
		// Every source timestamp was identical: a degenerate interval.
		return l.ys[0]
	}
	switch {
	case t < l.xs[0]:
		return l.ys[0] + slope(l.xs[0], l.ys[0], l.xs[1], l.ys[1])*(t-l.xs[0])
	case t > l.xs[n-1]:
		return l.ys[n-1] + slope(l.xs[n-2], l.ys[n-2], l.xs[n-1], l.ys[n-1])*(t-l.xs[n-1])
	default:
		return l.fit.Predict(t)
	}
}

// Resample evaluates l at every query time.
func (l *Linear) Resample(queries []float64) []float64 {
	out := make([]float64, len(queries))
	for i, q := range queries {
		out[i] = l.At(q)
	}
	return out
}

// Resample interpolates the series (times, values) at each query time.
func Resample(times, values, queries []float64) ([]float64, error) {
	l, err := NewLinear(times, values)
	if err != nil {
		return nil, err
	}
	return l.Resample(queries), nil
}

func slope(x0, y0, x1, y1 float64) float64 {
	if x1 == x0 {
		return 0
	}
	return (y1 - y0) / (x1 - x0)
}
