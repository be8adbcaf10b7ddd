// Package cli wires the cobra command tree.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugMode  bool
)

// NewRootCmd builds the root command with its persistent flags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "aijournal",
		Short:   "English learning journal backend",
		Long:    "aijournal is the backend for an English learning journal: dated diary entries with AI translation and feedback, vocabulary tracking, and learning progress statistics.",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	return rootCmd
}
