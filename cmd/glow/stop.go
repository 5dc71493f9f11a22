package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glowdesk/glow/internal/orchestrator"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Abort the currently running goal",
	Long: `Signal a running GLOW instance to abort its current goal.

The running instance checks for the stop signal before every action, so
the abort takes effect at the next loop iteration or plan step. This is
the escape hatch for when an automation run is doing something you did
not intend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sw, err := orchestrator.NewStopWatcher(signalsDir(cfg))
		if err != nil {
			return fmt.Errorf("open signals directory: %w", err)
		}
		defer sw.Close()

		if err := sw.SendStop(); err != nil {
			return fmt.Errorf("send stop signal: %w", err)
		}
		fmt.Println("Stop signal sent.")
		return nil
	},
}
