package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artkeep/artkeep/internal/layout"
)

var overrideCmd = &cobra.Command{
	Use:   "override [rating-key]",
	Short: "Toggle a manual 'artwork complete' flag",
	Long: `Toggle the manual override for one item's asset slot.

An override marks the item-level slot complete without a file on disk.
It is scoped per asset kind, and a show's missing season images still
count: an overridden show with absent season posters stays partial.

Examples:
  artkeep override 12345                      # Toggle the poster flag
  artkeep override 12345 --asset background   # Toggle the background flag
  artkeep override --list                     # Show all overrides`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOverrideCmd,
}

func init() {
	rootCmd.AddCommand(overrideCmd)
	overrideCmd.Flags().String("asset", "poster", "Asset kind: poster or background")
	overrideCmd.Flags().Bool("list", false, "List all overrides")
}

func runOverrideCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if list, _ := cmd.Flags().GetBool("list"); list {
		ov, err := app.history.Overrides()
		if err != nil {
			return err
		}
		t := newTable("Rating Key", "Asset")
		for key := range ov {
			t.AppendRow([]any{key.RatingKey, key.Asset.String()})
		}
		t.Render()
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("rating key required (or --list)")
	}
	assetName, _ := cmd.Flags().GetString("asset")
	asset, err := layout.ParseAsset(assetName)
	if err != nil {
		return err
	}

	on, err := app.history.ToggleOverride(args[0], asset)
	if err != nil {
		return err
	}
	if on {
		fmt.Printf("Override set: %s %s now counts as complete\n", args[0], asset)
	} else {
		fmt.Printf("Override cleared: %s %s follows disk state again\n", args[0], asset)
	}
	return nil
}
