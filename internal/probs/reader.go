// Package probs reads framewise beat/downbeat probability curves produced by
// an external estimator. Two encodings are supported: a JSON payload
// carrying both curves plus the hop interval, and raw little-endian float32
// streams, one file per curve.
package probs

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// DefaultHopSeconds is the hop interval of the beat_this spectrogram
// frontend (441 samples at 22050 Hz) that produces the curves in practice.
const DefaultHopSeconds = 441.0 / 22050.0

// Payload is the JSON form of a pair of framewise curves.
type Payload struct {
	// Hop is the sampling interval in seconds. Zero means DefaultHopSeconds.
	Hop float64 `json:"hop"`
	// Beat and Downbeat hold one value per frame, either probabilities in
	// [0,1] or raw logits (see Logits).
	Beat     []float64 `json:"beat"`
	Downbeat []float64 `json:"downbeat"`
	// Logits marks the values as unmapped logits that still need the
	// sigmoid applied.
	Logits bool `json:"logits,omitempty"`
}

// DecodeJSON parses a Payload, fills in the default hop, and applies the
// sigmoid when the payload carries logits.
func DecodeJSON(r io.Reader) (*Payload, error) {
	var p Payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding curve payload: %w", err)
	}
	if p.Hop == 0 {
		p.Hop = DefaultHopSeconds
	}
	if p.Hop < 0 || math.IsNaN(p.Hop) || math.IsInf(p.Hop, 0) {
		return nil, fmt.Errorf("curve payload: invalid hop %g", p.Hop)
	}
	if len(p.Beat) != len(p.Downbeat) {
		return nil, fmt.Errorf("curve payload: beat has %d frames, downbeat %d", len(p.Beat), len(p.Downbeat))
	}
	if p.Logits {
		SigmoidAll(p.Beat)
		SigmoidAll(p.Downbeat)
		p.Logits = false
	}
	return &p, nil
}

// ReadF32LE drains a stream of little-endian float32 values, one per frame.
func ReadF32LE(r io.Reader) ([]float64, error) {
	var values []float64
	for {
		var f float32
		switch err := binary.Read(r, binary.LittleEndian, &f); {
		case errors.Is(err, io.EOF):
			return values, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, errors.New("truncated float32 stream")
		case err != nil:
			return nil, err
		}
		values = append(values, float64(f))
	}
}

// Sigmoid maps a logit into (0,1).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// SigmoidAll applies Sigmoid in place.
func SigmoidAll(values []float64) {
	for i, v := range values {
		values[i] = Sigmoid(v)
	}
}
