package main

import (
	"github.com/spf13/cobra"
)

var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List the media server's libraries",
	Args:  cobra.NoArgs,
	RunE:  runLibrariesCmd,
}

func init() {
	rootCmd.AddCommand(librariesCmd)
}

func runLibrariesCmd(cmd *cobra.Command, _ []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	libs, err := app.client.Libraries(cmd.Context())
	if err != nil {
		return err
	}

	hidden := app.cfg.HiddenLibraries()
	t := newTable("Key", "Library", "Kind", "Visible")
	for _, lib := range libs {
		visible := "yes"
		if hidden[lib.Title] {
			visible = "hidden"
		}
		t.AppendRow([]any{lib.Key, lib.Title, lib.Kind.String(), visible})
	}
	t.Render()
	return nil
}
