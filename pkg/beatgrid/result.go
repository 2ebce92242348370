package beatgrid

import "math"

// Result is the rigid grid fitted to one piece of music. It is immutable
// once constructed: exact fixed period between consecutive beats, downbeats
// a stride of the beat grid at multiples of BeatsPerBar.
type Result struct {
	// BPM is the winning tempo. In discrete-frame mode this is the
	// effective frame-aligned tempo 60/(periodFrames*hop), not the nominal
	// sweep candidate.
	BPM float64
	// Offset is the time of the first beat in seconds, within [0, period).
	Offset float64
	// DownbeatOffset is the time of the first downbeat in seconds.
	DownbeatOffset float64
	// BeatsPerBar is the number of beats between consecutive downbeats.
	BeatsPerBar int
	// Score is the winning beat-curve comb score.
	Score float64
	// Beats holds the generated beat timestamps, ascending.
	Beats []float64
	// Downbeats holds every BeatsPerBar-th beat starting at DownbeatOffset.
	// Each entry equals some Beats[k] exactly.
	Downbeats []float64
}

// assembleResult anchors the final lattice on the winning downbeat phase:
// the beat offset is the downbeat phase reduced modulo the period, and
// downbeats are taken by striding the generated beat slice, which makes the
// downbeats-are-a-subsequence-of-beats invariant exact rather than
// approximate.
func assembleResult(bpm, period, dbPhase float64, bpb int, score, duration float64) *Result {
	offset := normalizePhase(dbPhase, period)
	beats := gridTimes(offset, period, duration)

	first := int(math.Round((dbPhase - offset) / period))
	downbeats := make([]float64, 0, len(beats)/bpb+1)
	for k := first; k < len(beats); k += bpb {
		downbeats = append(downbeats, beats[k])
	}
	// Report the downbeat offset as generated, not as searched, so it is
	// bit-exact with the first entry of Downbeats.
	if len(downbeats) > 0 {
		dbPhase = downbeats[0]
	}

	return &Result{
		BPM:            bpm,
		Offset:         offset,
		DownbeatOffset: dbPhase,
		BeatsPerBar:    bpb,
		Score:          score,
		Beats:          beats,
		Downbeats:      downbeats,
	}
}

// gridTimes generates phase, phase+period, ... strictly below duration.
// The grid is computed by multiplication, not accumulation, so beat k is
// exactly phase + k*period.
func gridTimes(phase, period, duration float64) []float64 {
	ts := make([]float64, 0, int(duration/period)+1)
	for i := 0; ; i++ {
		t := phase + float64(i)*period
		if t >= duration {
			break
		}
		ts = append(ts, t)
	}
	return ts
}

// normalizePhase reduces a phase into [0, period).
func normalizePhase(phase, period float64) float64 {
	m := math.Mod(phase, period)
	if m < 0 {
		m += period
	}
	return m
}
