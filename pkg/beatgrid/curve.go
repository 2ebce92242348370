package beatgrid

import (
	"errors"
	"math"
)

// Curve is a uniformly sampled probability series produced by an external
// framewise beat/downbeat estimator. Sample i sits at time i*hop and holds a
// value in [0,1]. The curve is read-only once constructed; a grid search
// never mutates or retains it.
type Curve struct {
	values []float64
	hop    float64
}

// NewCurve wraps framewise probability values with their hop interval.
// The slice is copied so callers are free to reuse their buffer.
func NewCurve(values []float64, hop float64) (*Curve, error) {
	if hop <= 0 || math.IsNaN(hop) || math.IsInf(hop, 0) {
		return nil, errors.New("beatgrid: hop must be a positive finite duration")
	}
	c := &Curve{
		values: make([]float64, len(values)),
		hop:    hop,
	}
	copy(c.values, values)
	return c, nil
}

// Len returns the number of samples.
func (c *Curve) Len() int { return len(c.values) }

// Hop returns the sampling interval in seconds.
func (c *Curve) Hop() float64 { return c.hop }

// Duration is the time of the last sample, or 0 for curves with fewer than
// two samples. Grid points are generated strictly below this time.
func (c *Curve) Duration() float64 {
	if len(c.values) == 0 {
		return 0
	}
	return float64(len(c.values)-1) * c.hop
}

// At evaluates the curve at an arbitrary time by piecewise-linear
// interpolation between samples. Queries outside [0, Duration()] evaluate to
// 0 so that grid points overrunning the curve contribute nothing instead of
// failing.
func (c *Curve) At(t float64) float64 {
	n := len(c.values)
	if n == 0 {
		return 0
	}
	pos := t / c.hop
	if pos < 0 || pos > float64(n-1) {
		return 0
	}
	i := int(pos)
	if i >= n-1 {
		return c.values[n-1]
	}
	frac := pos - float64(i)
	return c.values[i] + frac*(c.values[i+1]-c.values[i])
}

// Frame returns the sample at an integer frame index, 0 outside the curve.
// Used by the discrete comb scorer, which never interpolates.
func (c *Curve) Frame(i int) float64 {
	if i < 0 || i >= len(c.values) {
		return 0
	}
	return c.values[i]
}
