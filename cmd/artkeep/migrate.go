package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artkeep/artkeep/internal/layout"
	"github.com/artkeep/artkeep/internal/migrate"
	"github.com/artkeep/artkeep/pkg/match"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <from> <to>",
	Short: "Convert the asset store between layouts",
	Long: `Move every asset file from one naming layout to the other.

Layouts are "assetfolders" (one directory per item) and "flat" (one file
per item or season). The full move plan is computed before anything is
touched; files already in place are skipped, conflicting destinations are
reported and left alone, and unrecognizable filenames are never moved.
Downloads are blocked while a migration runs.

Examples:
  artkeep migrate flat assetfolders --dry-run   # Preview the plan
  artkeep migrate flat assetfolders             # Do it`,
	Args: cobra.ExactArgs(2),
	RunE: runMigrateCmd,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("dry-run", false, "Print the plan without moving anything")
}

func runMigrateCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	source, err := layout.ParseMode(args[0])
	if err != nil {
		return err
	}
	dest, err := layout.ParseMode(args[1])
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Catalog titles improve the suggestions for unrecognizable files.
	// The move itself is a pure filesystem transform, so an unreachable
	// server only degrades the report.
	var titles []string
	if libs, err := app.client.Libraries(cmd.Context()); err == nil {
		for _, lib := range libs {
			items, err := app.libraryItems(cmd.Context(), lib)
			if err != nil {
				break
			}
			for _, item := range items {
				titles = append(titles, item.DiskTitle())
			}
		}
	} else {
		app.log.Debug("catalog unreachable, skipping title suggestions", "error", err)
	}

	plan, err := migrate.NewPlan(app.cfg.Store.BaseDir, source, dest, migrate.Options{KnownTitles: titles})
	if err != nil {
		return err
	}

	if len(plan.Pairs) == 0 && len(plan.Unparsed) == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	if dryRun {
		t := newTable("Source", "Destination", "Note")
		for _, pair := range plan.Pairs {
			note := ""
			switch {
			case pair.Identical:
				note = "identical, will skip"
			case pair.Conflict:
				note = "conflict, will leave both"
			}
			t.AppendRow([]any{pair.Source, pair.Dest, note})
		}
		t.Render()
		printUnparsed(plan.Unparsed)
		fmt.Printf("%d files would move\n", len(plan.Pairs))
		return nil
	}

	report, err := migrate.NewExecutor(app.log).Execute(cmd.Context(), plan)
	if err != nil {
		return err
	}

	fmt.Printf("Moved %d, skipped %d, conflicts %d, failed %d\n",
		report.Moved, report.Skipped, len(report.Conflicts), len(report.Failed))
	for _, pair := range report.Conflicts {
		fmt.Printf("  conflict: %s -> %s (destination differs, both kept)\n", pair.Source, pair.Dest)
	}
	for _, fe := range report.Failed {
		fmt.Printf("  failed: %s: %v\n", fe.Pair.Source, fe.Err)
	}
	printUnparsed(report.Unparsed)

	if report.Moved > 0 || len(report.Failed) == 0 && len(report.Conflicts) == 0 {
		fmt.Printf("Remember to set store.layout = %q in your config.\n", dest.String())
	}
	return nil
}

func printUnparsed(files []migrate.UnparsedFile) {
	for _, u := range files {
		line := fmt.Sprintf("  unrecognized: %s (left in place", u.Path)
		if u.Suggestion != "" && u.Confidence >= match.ConfidenceMedium {
			line += fmt.Sprintf(", looks like %q", u.Suggestion)
		}
		fmt.Println(line + ")")
	}
}
