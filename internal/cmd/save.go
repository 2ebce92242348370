package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/julianallchin/luma/pkg/logger"
)

var saveTrackID string

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Fit a beat grid and store it for a track",
	Long: `Save runs the same search as fit and upserts the resulting grid into the
local database under the given track id (a fresh id is generated when none
is supplied). The grid is also printed as one JSON line.`,
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

		trackID := saveTrackID
		if trackID == "" {
			trackID = uuid.NewString()
		}
		db, err := openDB()
		if err != nil {
			fail("%v", err)
		}
		defer db.Close()
		if err := db.UpsertTrackBeats(trackID, res); err != nil {
			fail("%v", err)
		}
		logger.Infof("stored grid for track %s", trackID)

		p := payloadFromResult(res)
		p.TrackID = trackID
		emit(p)
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	addInputFlags(saveCmd)
	saveCmd.Flags().StringVar(&saveTrackID, "track", "", "track id to store the grid under")
}
