// Package beatgrid fits a rigid beat/downbeat grid, one constant tempo,
// phase and meter for the whole piece, onto framewise beat and downbeat
// probability curves produced by an external estimator. The search is a
// coarse-to-fine sweep over (BPM, phase) on the beat curve followed by a
// (beats-per-bar, downbeat-phase) selection on the downbeat curve.
package beatgrid

import (
	"context"
	"fmt"

	"github.com/julianallchin/luma/pkg/logger"
)

// Fitter runs fixed-grid searches. It is stateless between calls; the same
// Fitter may serve concurrent Fit invocations.
type Fitter struct {
	config *Config
	log    Logger
}

// NewFitter builds a Fitter from options. The BPM range and meter candidate
// set are validated here so a misconfigured search fails before it starts.
func NewFitter(opts ...Option) (*Fitter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	if cfg.BPMMin <= 0 || cfg.BPMMax <= 0 || cfg.BPMMin >= cfg.BPMMax {
		return nil, fmt.Errorf("beatgrid: bpm range [%g, %g]: %w", cfg.BPMMin, cfg.BPMMax, ErrInvalidRange)
	}
	if len(cfg.BeatsPerBar) == 0 {
		return nil, fmt.Errorf("beatgrid: beats-per-bar candidate set is empty")
	}
	for _, bpb := range cfg.BeatsPerBar {
		if bpb < 1 {
			return nil, fmt.Errorf("beatgrid: invalid beats-per-bar candidate %d", bpb)
		}
	}

	return &Fitter{config: cfg, log: cfg.Logger}, nil
}

// Fit searches for the (BPM, phase, beats-per-bar, downbeat-phase)
// hypothesis that best explains the two curves and returns the generated
// grid. The curves are only read; they may be shared across calls. Identical
// inputs and configuration always produce an identical Result.
func (f *Fitter) Fit(ctx context.Context, beat, downbeat *Curve) (*Result, error) {
	if err := validateCurve("beat", beat); err != nil {
		return nil, err
	}
	if err := validateCurve("downbeat", downbeat); err != nil {
		return nil, err
	}

	f.log.Debugf("fitting fixed grid: %.1f-%.1f BPM, %s mode, %.2fs of curve",
		f.config.BPMMin, f.config.BPMMax, f.config.Mode, beat.Duration())

	tempo, err := f.searchTempo(beat)
	if err != nil {
		return nil, fmt.Errorf("tempo search: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Discrete mode reports the frame-aligned grid it actually scored.
	period, phase := snap(beat, f.config.Mode, tempo.period, tempo.phase)
	bpm := tempo.bpm
	if f.config.Mode == ModeDiscreteFrame {
		bpm = 60.0 / period
	}
	basePhase := normalizePhase(phase, period)

	meter, err := f.selectMeter(downbeat, period, basePhase)
	if err != nil {
		return nil, fmt.Errorf("meter selection: %w", err)
	}
	_, dbPhase := snap(downbeat, f.config.Mode, period, meter.phase)

	res := assembleResult(bpm, period, dbPhase, meter.beatsPerBar, tempo.score, beat.Duration())
	f.log.Infof("fixed grid: %.2f BPM, offset %.3fs, %d beats/bar, %d beats, %d downbeats",
		res.BPM, res.Offset, res.BeatsPerBar, len(res.Beats), len(res.Downbeats))
	return res, nil
}

func validateCurve(name string, c *Curve) error {
	if c == nil || c.Len() == 0 || c.Duration() <= 0 {
		return fmt.Errorf("%s curve: %w", name, ErrEmptyCurve)
	}
	return nil
}
