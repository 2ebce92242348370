package cmd

import (
	"github.com/spf13/cobra"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a fixed beat grid to probability curves",
	Long: `Fit searches for the single (BPM, phase, beats-per-bar) hypothesis that
best explains the given beat/downbeat probability curves and prints the
resulting grid as one JSON line.`,
	Run: func(cmd *cobra.Command, args []string) {
		beat, downbeat, err := loadCurves()
		if err != nil {
			fail("%v", err)
		}
		fitter, err := newFitter()
		if err != nil {
			fail("%v", err)
		}
		res, err := fitter.Fit(cmd.Context(), beat, downbeat)
		if err != nil {
			fail("%v", err)
		}
		emit(payloadFromResult(res))
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
	addInputFlags(fitCmd)
}
