package beatgrid

import "math"

// meterPhaseN is the number of downbeat-phase offsets scanned per
// beats-per-bar candidate, spanning exactly one beat period.
const meterPhaseN = 16

type meterChoice struct {
	beatsPerBar int
	phase       float64
	score       float64
}

// selectMeter picks the (beats-per-bar, downbeat-phase) pair that best
// explains the downbeat curve, conditioned on the already-fixed beat period
// and phase. The downbeat phase is confined to one beat period starting at
// the beat phase, which keeps the meter fit anchored to the beat grid
// instead of drifting to an uncorrelated downbeat lattice.
func (f *Fitter) selectMeter(c *Curve, period, basePhase float64) (meterChoice, error) {
	best := meterChoice{score: negInf}
	for _, bpb := range f.config.BeatsPerBar {
		barPeriod := period * float64(bpb)
		for j := 0; j < meterPhaseN; j++ {
			phase := basePhase + float64(j)*period/meterPhaseN
			if s := scoreGrid(c, f.config.Mode, barPeriod, phase); s > best.score {
				best = meterChoice{beatsPerBar: bpb, phase: phase, score: s}
			}
		}
	}
	if math.IsInf(best.score, -1) {
		return meterChoice{}, ErrNoFeasibleHypothesis
	}
	return best, nil
}
