package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julianallchin/luma/internal/probs"
	"github.com/julianallchin/luma/pkg/beatgrid"
)

var (
	inputPath    string
	beatPath     string
	downbeatPath string
	hopSeconds   float64
	logits       bool
)

func addInputFlags(c *cobra.Command) {
	c.Flags().StringVarP(&inputPath, "input", "i", "-", "JSON curve payload ('-' for stdin)")
	c.Flags().StringVar(&beatPath, "beat", "", "raw float32le beat curve file (use with --downbeat)")
	c.Flags().StringVar(&downbeatPath, "downbeat", "", "raw float32le downbeat curve file (use with --beat)")
	c.Flags().Float64Var(&hopSeconds, "hop", probs.DefaultHopSeconds, "seconds per curve frame")
	c.Flags().BoolVar(&logits, "logits", false, "treat input values as logits and apply the sigmoid")
}

// loadCurves reads the beat and downbeat curves from either the raw float32
// pair or the JSON payload.
func loadCurves() (beat, downbeat *beatgrid.Curve, err error) {
	if (beatPath == "") != (downbeatPath == "") {
		return nil, nil, fmt.Errorf("--beat and --downbeat must be given together")
	}
	if beatPath != "" {
		return loadRawCurves()
	}
	return loadJSONCurves()
}

func loadRawCurves() (*beatgrid.Curve, *beatgrid.Curve, error) {
	beatVals, err := readF32File(beatPath)
	if err != nil {
		return nil, nil, err
	}
	downVals, err := readF32File(downbeatPath)
	if err != nil {
		return nil, nil, err
	}
	if logits {
		probs.SigmoidAll(beatVals)
		probs.SigmoidAll(downVals)
	}
	return buildCurves(beatVals, downVals, hopSeconds)
}

func loadJSONCurves() (*beatgrid.Curve, *beatgrid.Curve, error) {
	in := os.Stdin
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		in = f
	}
	p, err := probs.DecodeJSON(in)
	if err != nil {
		return nil, nil, err
	}
	if logits {
		// The flag covers payloads that carry logits without saying so.
		probs.SigmoidAll(p.Beat)
		probs.SigmoidAll(p.Downbeat)
	}
	return buildCurves(p.Beat, p.Downbeat, p.Hop)
}

func buildCurves(beatVals, downVals []float64, hop float64) (*beatgrid.Curve, *beatgrid.Curve, error) {
	beat, err := beatgrid.NewCurve(beatVals, hop)
	if err != nil {
		return nil, nil, fmt.Errorf("beat curve: %w", err)
	}
	downbeat, err := beatgrid.NewCurve(downVals, hop)
	if err != nil {
		return nil, nil, fmt.Errorf("downbeat curve: %w", err)
	}
	return beat, downbeat, nil
}

func readF32File(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	values, err := probs.ReadF32LE(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}
