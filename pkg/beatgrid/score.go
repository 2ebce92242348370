package beatgrid

import "math"

// Mode selects how hypothesis grid points are looked up in a curve.
type Mode int

const (
	// ModeContinuous interpolates the curve linearly at exact grid times.
	ModeContinuous Mode = iota
	// ModeDiscreteFrame snaps the hypothesis period and phase to whole
	// frames and reads samples by striding, an exact alias-free comb at the
	// cost of continuous tempo precision.
	ModeDiscreteFrame
)

func (m Mode) String() string {
	switch m {
	case ModeContinuous:
		return "continuous"
	case ModeDiscreteFrame:
		return "discrete-frame"
	default:
		return "unknown"
	}
}

// negInf marks a hypothesis whose grid is empty. It loses every strict
// comparison but never raises.
var negInf = math.Inf(-1)

// scoreGrid returns the mean curve value along the arithmetic grid
// phase, phase+period, ... strictly below the curve duration. An empty grid
// scores -Inf. Grid points before time zero count as zeros, matching the
// interpolation contract, so phase candidates slightly left of the origin
// are comparable with in-range ones.
func scoreGrid(c *Curve, mode Mode, period, phase float64) float64 {
	if mode == ModeDiscreteFrame {
		return scoreComb(c, period, phase)
	}
	duration := c.Duration()
	var sum float64
	var n int
	// Same lattice arithmetic as gridTimes: beat k at exactly phase+k*period.
	for i := 0; ; i++ {
		t := phase + float64(i)*period
		if t >= duration {
			break
		}
		sum += c.At(t)
		n++
	}
	if n == 0 {
		return negInf
	}
	return sum / float64(n)
}

// scoreComb is the frame-domain variant: the period is rounded to a whole
// number of frames and the phase to a whole frame, then samples are read at
// that stride across the full curve.
func scoreComb(c *Curve, period, phase float64) float64 {
	pf := periodFrames(c, period)
	start := int(math.Round(phase / c.hop))
	n := c.Len()
	if start >= n {
		return negInf
	}
	var sum float64
	var count int
	for i := start; i < n; i += pf {
		sum += c.Frame(i)
		count++
	}
	if count == 0 {
		return negInf
	}
	return sum / float64(count)
}

// periodFrames rounds a period to its nearest whole frame count, never below
// one frame.
func periodFrames(c *Curve, period float64) int {
	pf := int(math.Round(period / c.hop))
	if pf < 1 {
		pf = 1
	}
	return pf
}

// snap quantizes a (period, phase) pair to the curve's frame lattice in
// discrete mode and is the identity in continuous mode. The returned period
// is what the reported BPM is derived from, so a discrete-mode result
// carries the effective frame-aligned tempo rather than the nominal
// candidate.
func snap(c *Curve, mode Mode, period, phase float64) (float64, float64) {
	if mode != ModeDiscreteFrame {
		return period, phase
	}
	pf := periodFrames(c, period)
	return float64(pf) * c.hop, math.Round(phase/c.hop) * c.hop
}
