// Package commands holds the anchor CLI command tree.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Anchor - slot resolution and email gating engine",
	Long: `Anchor resolves slot rows against canonical company and person lists,
validates the company and employment gates, tracks movement through
deterministic hashes, and generates verified email addresses for rows
that pass both gates. Failures land in named bays for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Cobra's own error printing is silenced;
// commands print colored errors through the printer package.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version string shown by --version.
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
}
