// Package cli defines the roompulse command tree. Commands stay thin: they
// load configuration, call into the pipeline, and print or serve results.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roompulse/roompulse/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "roompulse",
	Short: "roompulse — engagement leaderboards for a scraped focus room",
	Long: `roompulse recomputes per-user presence timelines and work/break timer
activity from the collector's raw logs, and writes a ranked leaderboard.
Every run is a full batch pass over the whole log; outputs replace prior
content wholesale.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config file (defaults apply when empty)")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
}

// loadConfig loads the configured file, or defaults when no file was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
