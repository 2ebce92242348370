package cmd

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <track-id>",
	Short: "Print the stored beat grid for a track",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db, err := openDB()
		if err != nil {
			fail("%v", err)
		}
		defer db.Close()

		rec, err := db.GetTrackBeats(args[0])
		if err != nil {
			fail("%v", err)
		}
		beats, downbeats, err := rec.Timestamps()
		if err != nil {
			fail("%v", err)
		}
		emit(gridPayload{
			Beats:          beats,
			Downbeats:      downbeats,
			BPM:            rec.BPM,
			DownbeatOffset: rec.DownbeatOffset,
			BeatsPerBar:    rec.BeatsPerBar,
			TrackID:        rec.TrackID,
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
