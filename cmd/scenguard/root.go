package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scenguard",
	Short: "Scenario compliance validator for database corpora",
	Long: `Scenguard validates that every database in an artifact corpus is used
the way its policy declares.

Each resource carries a scenario classification (CONFIG_ONLY, MIXED, or
LOGIC_HEAVY) that defines which kinds of evidence may, must, and must not
reference it. Scenguard scans the corpus for references, evaluates the
scenario rules, and reports violations per resource and check.

A run passes when no resource has a CRITICAL failure.

Core commands:
  validate   Run the full check suite against a corpus
  watch      Revalidate automatically whenever the corpus changes
  serve      Expose reports and on-demand validation over HTTP
  policies   Show the resource inventory the checks run against`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
