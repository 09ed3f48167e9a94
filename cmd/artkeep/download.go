package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artkeep/artkeep/internal/artwork"
	"github.com/artkeep/artkeep/internal/layout"
)

var downloadCmd = &cobra.Command{
	Use:   "download <rating-key>",
	Short: "Download artwork for one item",
	Long: `Download artwork for a single item or season.

Existing files are never overwritten; a slot that already has an image is
reported as present and left alone. Use --mark-only to flag a slot as
complete without fetching anything.

Examples:
  artkeep download 12345                        # Item poster
  artkeep download 12345 --asset background     # Item background
  artkeep download 12345 --season 2             # Season 2 poster
  artkeep download 12345 --provider fanart      # Prefer one provider
  artkeep download 12345 --mark-only            # Record a manual override`,
	Args: cobra.ExactArgs(1),
	RunE: runDownloadCmd,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().String("asset", "poster", "Asset kind: poster or background")
	downloadCmd.Flags().Int("season", layout.NoSeason, "Season index (shows only)")
	downloadCmd.Flags().String("provider", "", "Prefer candidates from this provider")
	downloadCmd.Flags().Bool("mark-only", false, "Mark the slot complete without downloading")
}

func runDownloadCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	assetName, _ := cmd.Flags().GetString("asset")
	asset, err := layout.ParseAsset(assetName)
	if err != nil {
		return err
	}
	season, _ := cmd.Flags().GetInt("season")
	provider, _ := cmd.Flags().GetString("provider")
	markOnly, _ := cmd.Flags().GetBool("mark-only")

	item, err := app.client.Item(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch item %s: %w", args[0], err)
	}

	saved, err := app.orch.Download(cmd.Context(), item, asset, season, app.policy(provider, markOnly))
	switch {
	case errors.Is(err, artwork.ErrAlreadyPresent):
		fmt.Printf("%s: %s already present, leaving it alone\n", item.Title, asset)
		return nil
	case err != nil:
		return err
	case saved.Marked:
		fmt.Printf("%s: %s marked complete\n", item.Title, asset)
	default:
		fmt.Printf("%s: saved %s (from %s)\n", item.Title, saved.Path, saved.Provider)
	}
	return nil
}
