package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artkeep/artkeep/internal/layout"
)

var statusCmd = &cobra.Command{
	Use:   "status [library]",
	Short: "Show artwork status per library",
	Long: `Show how much artwork each library has on disk.

Status is recomputed from disk on every run: deleting a file out-of-band
shows up immediately. Per item, a slot family is complete when the
item-level image and (for shows) every season image exist, or the slot
carries a manual override.

Examples:
  artkeep status               # All visible libraries
  artkeep status "TV Shows"    # One library
  artkeep status --items Movies  # Per-item detail for one library`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("items", false, "List per-item status instead of totals")
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	only := ""
	if len(args) > 0 {
		only = args[0]
	}
	perItem, _ := cmd.Flags().GetBool("items")
	if perItem && only == "" {
		return fmt.Errorf("--items requires a library name")
	}

	libs, err := app.visibleLibraries(cmd.Context(), only)
	if err != nil {
		return err
	}
	ov, err := app.history.Overrides()
	if err != nil {
		return err
	}

	assets := []layout.AssetKind{layout.Poster, layout.Background}

	if perItem {
		items, err := app.libraryItems(cmd.Context(), libs[0])
		if err != nil {
			return err
		}
		t := newTable("Title", "Asset", "Status", "Item", "Seasons")
		for _, item := range items {
			for _, asset := range assets {
				res, err := app.rec.Item(item, asset, ov)
				if err != nil {
					return err
				}
				itemMark := "-"
				if res.ItemPresent {
					itemMark = "on disk"
				} else if res.Overridden {
					itemMark = "override"
				}
				seasons := "-"
				if item.Kind == layout.Show {
					seasons = fmt.Sprintf("%d/%d", res.SeasonsPresent, res.SeasonsTotal)
				}
				t.AppendRow([]any{item.Title, asset.String(), res.Status.String(), itemMark, seasons})
			}
		}
		t.Render()
		return nil
	}

	t := newTable("Library", "Asset", "Items", "Complete", "Partial", "Missing", "Errors")
	for _, lib := range libs {
		items, err := app.libraryItems(cmd.Context(), lib)
		if err != nil {
			return err
		}
		for _, asset := range assets {
			stats := app.rec.Library(items, asset, ov)
			t.AppendRow([]any{
				lib.Title, asset.String(), stats.Total(),
				stats.Complete, stats.Partial, stats.Missing, stats.Errors,
			})
		}
	}
	t.Render()
	return nil
}
