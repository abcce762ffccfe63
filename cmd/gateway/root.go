package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Edge gateway for the video-sharing application",
	Long: `Gateway is the single public entry point for the video-sharing
application's backend services.

It serves server-rendered pages for browsing, playing, and uploading
videos, aggregating JSON from the metadata and history services, and
pipes video bytes between browsers and the streaming and upload
services without buffering them. Every request carries a correlation
ID that is propagated to upstream calls and recorded in the audit
trail.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
