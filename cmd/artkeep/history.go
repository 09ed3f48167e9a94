package main

import (
	"github.com/spf13/cobra"

	"github.com/artkeep/artkeep/internal/layout"
)

var historyCmd = &cobra.Command{
	Use:   "history <rating-key>",
	Short: "Show download history for one item",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum entries to show")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := app.history.List(args[0], limit)
	if err != nil {
		return err
	}

	t := newTable("When", "Asset", "Season", "Provider", "Candidate")
	for _, e := range entries {
		season := "-"
		if e.Season != layout.NoSeason {
			season = layout.SeasonName(e.Season)
		}
		t.AppendRow([]any{
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Asset.String(), season, e.Provider, e.CandidateKey,
		})
	}
	t.Render()
	return nil
}
