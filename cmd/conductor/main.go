// Package main implements the conductor CLI, which drives one task through
// the configured workflow phases.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version information (set via ldflags during build)
var version = "dev"

var (
	// configPath is the optional YAML config file.
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "conductor",
	Short: "Phased workflow orchestration for autonomous workers",
	Long: `conductor decomposes one high-level task into an ordered sequence of
phases (research, plan, implement, correct by default), delegates each phase
to an external worker, and persists an audit trail of every phase record plus
a final summary.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(phasesCmd)
}
