package beatgrid

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

// impulseCurve builds a curve with a 1.0 impulse at the frame nearest every
// time phase + k*spacing, zero elsewhere.
func impulseCurve(t *testing.T, phase, spacing, duration, hop float64) *Curve {
	t.Helper()
	n := int(duration/hop) + 1
	values := make([]float64, n)
	for ts := phase; ts < duration; ts += spacing {
		i := int(math.Round(ts / hop))
		if i >= 0 && i < n {
			values[i] = 1.0
		}
	}
	return mustCurve(t, values, hop)
}

func mustFitter(t *testing.T, opts ...Option) *Fitter {
	t.Helper()
	f, err := NewFitter(opts...)
	if err != nil {
		t.Fatalf("NewFitter: %v", err)
	}
	return f
}

func TestFitRecoversSyntheticTempo(t *testing.T) {
	const (
		hop      = 0.01
		duration = 60.0
		truePer  = 0.5 // 120 BPM
		truePhi  = 0.37
	)
	beat := impulseCurve(t, truePhi, truePer, duration, hop)
	downbeat := impulseCurve(t, truePhi, 4*truePer, duration, hop)

	f := mustFitter(t)
	res, err := f.Fit(context.Background(), beat, downbeat)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if math.Abs(res.BPM-120.0) > 0.1 {
		t.Errorf("BPM = %v, want 120 +/- 0.1", res.BPM)
	}
	if math.Abs(res.Offset-truePhi) > hop {
		t.Errorf("Offset = %v, want %v +/- one hop", res.Offset, truePhi)
	}
	if res.BeatsPerBar != 4 {
		t.Errorf("BeatsPerBar = %d, want 4", res.BeatsPerBar)
	}
	t.Logf("recovered %.3f BPM at offset %.4fs, score %.4f", res.BPM, res.Offset, res.Score)
}

func TestFineNeverRegressesCoarse(t *testing.T) {
	beat := impulseCurve(t, 0.2, 60.0/97.0, 30.0, 0.01)

	f := mustFitter(t)
	coarse := f.coarseSweep(beat)
	if math.IsInf(coarse.score, -1) {
		t.Fatal("coarse sweep found no feasible hypothesis")
	}
	fine := f.fineSweep(beat, coarse)
	if fine.score < coarse.score {
		t.Errorf("fine score %v below coarse score %v", fine.score, coarse.score)
	}
}

func TestFitIsDeterministic(t *testing.T) {
	beat := impulseCurve(t, 0.11, 60.0/133.0, 45.0, 0.01)
	downbeat := impulseCurve(t, 0.11, 3*60.0/133.0, 45.0, 0.01)

	// Different worker counts must reduce to the same winner: candidates
	// are scored in parallel but compared in enumeration order.
	f1 := mustFitter(t, WithWorkers(1))
	f8 := mustFitter(t, WithWorkers(8))

	first, err := f1.Fit(context.Background(), beat, downbeat)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := f8.Fit(context.Background(), beat, downbeat)
		if err != nil {
			t.Fatalf("Fit: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first result", i)
		}
	}
}

func TestFitDownbeatsAreSubsequenceOfBeats(t *testing.T) {
	beat := impulseCurve(t, 0.25, 60.0/110.0, 40.0, 0.01)
	downbeat := impulseCurve(t, 0.25, 4*60.0/110.0, 40.0, 0.01)

	f := mustFitter(t)
	res, err := f.Fit(context.Background(), beat, downbeat)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(res.Downbeats) == 0 {
		t.Fatal("no downbeats generated")
	}

	index := make(map[float64]int, len(res.Beats))
	for k, b := range res.Beats {
		index[b] = k
	}
	firstIdx := -1
	for _, db := range res.Downbeats {
		k, ok := index[db]
		if !ok {
			t.Fatalf("downbeat %v is not a beat timestamp", db)
		}
		if firstIdx == -1 {
			firstIdx = k
			continue
		}
		if (k-firstIdx)%res.BeatsPerBar != 0 {
			t.Errorf("downbeat at beat %d breaks the %d-beat stride", k, res.BeatsPerBar)
		}
	}
}

func TestFitAllZeroCurvePicksFirstHypothesis(t *testing.T) {
	beat := constCurve(t, 0, 1001, 0.01) // 10s of silence
	downbeat := constCurve(t, 0, 1001, 0.01)

	f := mustFitter(t)
	res, err := f.Fit(context.Background(), beat, downbeat)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if res.BPM != 70 {
		t.Errorf("BPM = %v, want the first-enumerated 70", res.BPM)
	}
	if res.Offset != 0 {
		t.Errorf("Offset = %v, want 0", res.Offset)
	}
	if res.BeatsPerBar != 3 {
		t.Errorf("BeatsPerBar = %d, want the first candidate 3", res.BeatsPerBar)
	}
	if res.Score != 0 {
		t.Errorf("Score = %v, want 0", res.Score)
	}
}

func TestFitCombCurveSnapsToAlignedTempo(t *testing.T) {
	// 1.0 every 10 frames at hop 0.01 implies 600 BPM, far above the
	// range; the lowest in-range tempo whose period is a whole multiple of
	// the impulse spacing is 75 BPM (0.8s = 80 frames).
	values := make([]float64, 600)
	for i := 0; i < len(values); i += 10 {
		values[i] = 1.0
	}
	beat := mustCurve(t, values, 0.01)
	downbeat := constCurve(t, 0, 600, 0.01)

	f := mustFitter(t, WithMode(ModeDiscreteFrame))
	res, err := f.Fit(context.Background(), beat, downbeat)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(res.BPM-75.0) > 1e-9 {
		t.Errorf("BPM = %v, want 75", res.BPM)
	}
	if res.Offset != 0 {
		t.Errorf("Offset = %v, want 0", res.Offset)
	}
	if res.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", res.Score)
	}
}

func TestFitShortCurveSkipsInfeasibleCandidates(t *testing.T) {
	// 0.59s of curve: the longest candidate periods cannot fit a full
	// period, but single-point grids keep every BPM comparable and the
	// search must still finish.
	beat := impulseCurve(t, 0.0, 60.0/150.0, 0.59, 0.01)
	downbeat := impulseCurve(t, 0.0, 4*60.0/150.0, 0.59, 0.01)

	f := mustFitter(t)
	res, err := f.Fit(context.Background(), beat, downbeat)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(res.Beats) == 0 {
		t.Error("expected a non-empty beat grid")
	}
}

func TestSelectMeterNoFeasibleHypothesis(t *testing.T) {
	f := mustFitter(t)
	short := constCurve(t, 1, 2, 0.01) // 0.01s of downbeat curve

	// Base phase beyond the downbeat curve: every candidate grid is empty.
	_, err := f.selectMeter(short, 0.5, 0.4)
	if !errors.Is(err, ErrNoFeasibleHypothesis) {
		t.Errorf("selectMeter error = %v, want ErrNoFeasibleHypothesis", err)
	}
}

func TestCoarseBPMSweepIncludesBothEnds(t *testing.T) {
	f := mustFitter(t, WithBPMRange(70, 170))
	bpms := f.coarseBPMs()
	if len(bpms) != 101 {
		t.Fatalf("got %d coarse candidates, want 101", len(bpms))
	}
	if bpms[0] != 70 || math.Abs(bpms[len(bpms)-1]-170) > 1e-9 {
		t.Errorf("sweep spans [%v, %v], want [70, 170]", bpms[0], bpms[len(bpms)-1])
	}
}
