package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artkeep/artkeep/internal/catalog"
	"github.com/artkeep/artkeep/internal/layout"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [library]",
	Short: "Download every missing asset",
	Long: `Fill every absent artwork slot across visible libraries.

This is the same pass the daemon's scheduler runs. Slots with an existing
file or a manual override are skipped; one slot's failure never aborts
the sweep.

Examples:
  artkeep sweep                   # Everything
  artkeep sweep Movies            # One library
  artkeep sweep --asset poster    # Posters only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSweepCmd,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().String("asset", "", "Limit to one asset kind: poster or background")
	sweepCmd.Flags().String("provider", "", "Prefer candidates from this provider")
}

func runSweepCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	only := ""
	if len(args) > 0 {
		only = args[0]
	}
	provider, _ := cmd.Flags().GetString("provider")

	assets := []layout.AssetKind{layout.Poster, layout.Background}
	if name, _ := cmd.Flags().GetString("asset"); name != "" {
		asset, err := layout.ParseAsset(name)
		if err != nil {
			return err
		}
		assets = []layout.AssetKind{asset}
	}

	libs, err := app.visibleLibraries(cmd.Context(), only)
	if err != nil {
		return err
	}
	var items []*catalog.Item
	for _, lib := range libs {
		libItems, err := app.libraryItems(cmd.Context(), lib)
		if err != nil {
			return err
		}
		items = append(items, libItems...)
	}

	ov, err := app.history.Overrides()
	if err != nil {
		return err
	}

	policy := app.policy(provider, false)
	for _, asset := range assets {
		report, err := app.orch.DownloadMissing(cmd.Context(), items, asset, policy, ov)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d downloaded, %d already present, %d failed\n",
			asset, report.Downloaded, report.Skipped, len(report.Failed))
		for desc, ferr := range report.Failed {
			fmt.Printf("  %s: %v\n", desc, ferr)
		}
	}
	return nil
}
