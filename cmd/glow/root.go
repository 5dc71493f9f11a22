package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string
var rootHeadless bool
var rootAllowDynamic bool

var rootCmd = &cobra.Command{
	Use:   "glow",
	Short: "Desktop automation assistant",
	Long: `GLOW turns natural-language goals into desktop actions.

With no arguments, launches interactive mode: a chat interface where you
type goals ("open the calculator", "search for Go tutorials") and watch
them execute against your desktop.

Core capabilities:
- Observes the active window to ground every decision in screen context
- Re-plans after each action instead of trusting a stale plan
- Falls back to screenshot analysis when the screen state is ambiguous
- Refuses sensitive targets (banking, passwords, system administration)
- Remembers facts and past interactions across sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (overrides the standard search)")

	// Flags for interactive mode
	rootCmd.Flags().BoolVar(&rootHeadless, "headless-browser", false, "Run the managed browser without a window")
	rootCmd.Flags().BoolVar(&rootAllowDynamic, "allow-dynamic", false, "Allow the planner to define new declarative tools")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(recallCmd)
	rootCmd.AddCommand(versionCmd)
}
