package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianallchin/luma/pkg/beatgrid"
)

// gridPayload is the line-delimited JSON shape consumed by downstream tools.
type gridPayload struct {
	Beats          []float64 `json:"beats"`
	Downbeats      []float64 `json:"downbeats"`
	BPM            float64   `json:"bpm"`
	DownbeatOffset float64   `json:"downbeat_offset"`
	BeatsPerBar    int       `json:"beats_per_bar"`
	TrackID        string    `json:"track_id,omitempty"`
}

func payloadFromResult(res *beatgrid.Result) gridPayload {
	return gridPayload{
		Beats:          res.Beats,
		Downbeats:      res.Downbeats,
		BPM:            res.BPM,
		DownbeatOffset: res.DownbeatOffset,
		BeatsPerBar:    res.BeatsPerBar,
	}
}

// emit writes one payload line to stdout.
func emit(p gridPayload) {
	if err := json.NewEncoder(os.Stdout).Encode(p); err != nil {
		fail("encoding payload: %v", err)
	}
}

// fail reports an error as {"error": msg} on stderr and exits non-zero, the
// contract expected by the processes driving these tools.
func fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(os.Stderr).Encode(map[string]string{"error": msg})
	os.Exit(1)
}
