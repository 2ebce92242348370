package beatgrid

import "errors"

// Structural precondition failures. All are detected before or at the start
// of a search stage; nothing is retried and no partial result is returned.
var (
	// ErrInvalidRange reports a BPM range with min >= max or a non-positive
	// bound.
	ErrInvalidRange = errors.New("invalid bpm range")

	// ErrEmptyCurve reports a curve with no samples or zero duration. No
	// meaningful tempo can be inferred from one, so the search refuses it
	// instead of returning a degenerate grid.
	ErrEmptyCurve = errors.New("empty probability curve")

	// ErrNoFeasibleHypothesis reports a sweep in which every candidate
	// produced an empty grid: the curve itself is fine, the BPM range is
	// just too wide for the audio length.
	ErrNoFeasibleHypothesis = errors.New("no feasible grid hypothesis")
)
