package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "artkeep",
	Short: "Poster and background manager for your media library",
	Long: `artkeep - poster and background manager for your media library

Mirrors the media server's catalog against a local asset store, shows
which artwork is missing, downloads it from the server's providers, and
converts the store between the asset-folders and flat naming layouts.

Run 'artkeepd' to start the scheduling daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: discovered)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("artkeep {{.Version}}\n")
}
