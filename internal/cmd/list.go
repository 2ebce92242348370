package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracks with stored beat grids",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := openDB()
		if err != nil {
			fail("%v", err)
		}
		defer db.Close()

		recs, err := db.ListTrackBeats()
		if err != nil {
			fail("%v", err)
		}
		if len(recs) == 0 {
			fmt.Println("no stored grids")
			return
		}
		for _, rec := range recs {
			var beats []float64
			if err := json.Unmarshal([]byte(rec.BeatsJSON), &beats); err != nil {
				fail("track %s: %v", rec.TrackID, err)
			}
			fmt.Printf("%s  %6.2f BPM  %d/bar  %s beats  updated %s\n",
				rec.TrackID, rec.BPM, rec.BeatsPerBar,
				humanize.Comma(int64(len(beats))), humanize.Time(rec.UpdatedAt))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
