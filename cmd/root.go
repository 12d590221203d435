// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contrib-stats",
	Short: "Per-contributor commit statistics for GitHub repositories.",
	Long: `contrib-stats lists the repositories known to the stats backend (or to GitHub
directly) and aggregates additions, deletions and commit counts per contributor
of a selected repository, together with its total lines of code.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags are available to all commands and override the environment.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("source", "", "Upstream to read from: backend or github (env STATS_SOURCE)")
	rootCmd.PersistentFlags().String("api-base", "", "Stats backend base URL (env STATS_API_BASE_URL)")
}
