package beatgrid

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

const (
	coarseStepBPM = 1.0
	coarsePhaseN  = 24
	fineWindowBPM = 4.0
	fineStepBPM   = 0.1
	finePhaseN    = 48

	// Tolerance so the exact upper bound survives float accumulation and
	// stays part of the coarse sweep.
	bpmSweepEps = 1e-6
)

// tempoHypothesis is one (bpm, phase) candidate with its comb score.
type tempoHypothesis struct {
	bpm    float64
	period float64
	phase  float64
	score  float64
}

// searchTempo finds the best fixed (bpm, phase) for the beat curve: a coarse
// global sweep followed by a local refinement. The refinement only replaces
// the running best on a strictly higher score, so it can never regress below
// the coarse winner.
func (f *Fitter) searchTempo(c *Curve) (tempoHypothesis, error) {
	coarse := f.coarseSweep(c)
	if math.IsInf(coarse.score, -1) {
		return tempoHypothesis{}, ErrNoFeasibleHypothesis
	}
	f.log.Debugf("coarse winner: %.1f BPM phase %.3fs score %.4f", coarse.bpm, coarse.phase, coarse.score)
	return f.fineSweep(c, coarse), nil
}

func (f *Fitter) coarseBPMs() []float64 {
	cfg := f.config
	var bpms []float64
	for i := 0; ; i++ {
		bpm := cfg.BPMMin + float64(i)*coarseStepBPM
		if bpm > cfg.BPMMax+bpmSweepEps {
			break
		}
		bpms = append(bpms, bpm)
	}
	return bpms
}

// coarseSweep scores every BPM candidate at 1 BPM steps. Candidates are
// independent, so they are evaluated by a small worker pool; the reduction
// afterwards runs sequentially in ascending enumeration order with a strict
// > comparison, so a parallel run picks the same winner as a sequential one.
func (f *Fitter) coarseSweep(c *Curve) tempoHypothesis {
	bpms := f.coarseBPMs()
	results := make([]tempoHypothesis, len(bpms))

	workers := f.config.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(bpms) {
		workers = len(bpms)
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(bpms) {
					return
				}
				results[i] = f.bestPhaseForBPM(c, bpms[i])
			}
		}()
	}
	wg.Wait()

	best := tempoHypothesis{score: negInf}
	for _, h := range results {
		if h.score > best.score {
			best = h
		}
	}
	return best
}

// bestPhaseForBPM sweeps the phase candidates of one BPM. First-seen wins on
// exact ties, in candidate order.
func (f *Fitter) bestPhaseForBPM(c *Curve, bpm float64) tempoHypothesis {
	period := 60.0 / bpm
	best := tempoHypothesis{bpm: bpm, period: period, score: negInf}
	for _, phase := range f.coarsePhases(c, period) {
		if s := scoreGrid(c, f.config.Mode, period, phase); s > best.score {
			best.score, best.phase = s, phase
		}
	}
	return best
}

// coarsePhases covers one full period: 24 even points in continuous mode,
// every frame position exactly once in discrete mode.
func (f *Fitter) coarsePhases(c *Curve, period float64) []float64 {
	if f.config.Mode == ModeDiscreteFrame {
		pf := periodFrames(c, period)
		phases := make([]float64, pf)
		for i := range phases {
			phases[i] = float64(i) * c.hop
		}
		return phases
	}
	phases := make([]float64, coarsePhaseN)
	step := period / coarsePhaseN
	for i := range phases {
		phases[i] = float64(i) * step
	}
	return phases
}

// fineSweep re-sweeps a ±4 BPM neighborhood of the coarse winner at 0.1 BPM
// steps, with 48 phase candidates confined to half a period centered on the
// coarse phase so the refinement cannot jump to an unrelated phase.
func (f *Fitter) fineSweep(c *Curve, coarse tempoHypothesis) tempoHypothesis {
	cfg := f.config
	lo := math.Max(cfg.BPMMin, coarse.bpm-fineWindowBPM)
	hi := math.Min(cfg.BPMMax, coarse.bpm+fineWindowBPM)

	best := coarse
	for i := 0; ; i++ {
		bpm := lo + float64(i)*fineStepBPM
		if bpm >= hi {
			break
		}
		period := 60.0 / bpm
		start := coarse.phase - period/4
		step := (period / 2) / finePhaseN
		for j := 0; j < finePhaseN; j++ {
			phase := start + float64(j)*step
			if s := scoreGrid(c, cfg.Mode, period, phase); s > best.score {
				best = tempoHypothesis{bpm: bpm, period: period, phase: phase, score: s}
			}
		}
	}
	return best
}
