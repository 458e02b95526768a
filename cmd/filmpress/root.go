package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "filmpress",
	Short: "Ingest scraped media metadata into a CMS content schema",
	Long: `filmpress - scraped media metadata ingester

Reads scrape output files (a film record plus its season/episode
structure) and materializes them into the content store as posts,
metadata pairs, and taxonomy links. Safe to re-run: entities whose
slug already exists are skipped.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search standard locations)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("filmpress {{.Version}}\n")
}
