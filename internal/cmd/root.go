// Package cmd implements the luma command line: fitting fixed beat grids to
// framewise probability curves and managing the local grid store.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/julianallchin/luma/internal/storage"
	"github.com/julianallchin/luma/pkg/beatgrid"
)

var (
	bpmMin   float64
	bpmMax   float64
	modeName string
	workers  int
	dbPath   string
)

var rootCmd = &cobra.Command{
	Use:   "luma",
	Short: "Fixed-BPM beat grid tools",
	Long: `Fits a rigid beat/downbeat grid (one constant tempo, phase and meter
for the whole piece) onto framewise beat/downbeat probability curves
produced by a neural beat tracker.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&bpmMin, "bpm-min", 70, "lower BPM bound for the grid search")
	rootCmd.PersistentFlags().Float64Var(&bpmMax, "bpm-max", 170, "upper BPM bound for the grid search")
	rootCmd.PersistentFlags().StringVar(&modeName, "mode", "continuous", "curve lookup mode: continuous or discrete-frame")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "goroutines for the coarse sweep (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the grid database (default $LUMA_DB_PATH or "+storage.DefaultDBFile+")")
}

func newFitter() (*beatgrid.Fitter, error) {
	var mode beatgrid.Mode
	switch modeName {
	case "continuous":
		mode = beatgrid.ModeContinuous
	case "discrete-frame", "discrete":
		mode = beatgrid.ModeDiscreteFrame
	default:
		return nil, fmt.Errorf("unknown mode %q (want continuous or discrete-frame)", modeName)
	}
	return beatgrid.NewFitter(
		beatgrid.WithBPMRange(bpmMin, bpmMax),
		beatgrid.WithMode(mode),
		beatgrid.WithWorkers(workers),
	)
}

func openDB() (*storage.DBClient, error) {
	if dbPath != "" {
		return storage.NewDBClientWithPath(dbPath)
	}
	return storage.NewDBClient()
}
