package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find items in the catalog by title",
	Long: `Search the media server's catalog by title.

Useful for finding the rating key that 'download', 'override', and
'history' take.

Example:
  artkeep search "the office"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	query := strings.Join(args, " ")
	items, err := app.client.Search(cmd.Context(), query)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Printf("No catalog items match %q\n", query)
		return nil
	}

	t := newTable("Rating Key", "Title", "Year", "Kind", "Library")
	for _, item := range items {
		year := ""
		if item.Year > 0 {
			year = fmt.Sprintf("%d", item.Year)
		}
		t.AppendRow([]any{item.RatingKey, item.Title, year, item.Kind.String(), item.Library})
	}
	t.Render()
	return nil
}
