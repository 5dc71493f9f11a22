package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glowdesk/glow/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available tools",
	Long: `List every tool the planner can invoke, grouped by category.

Built-in tools cover files, applications, windows, the browser, input,
the clipboard and system volume. Declarative tools loaded from the
configured spec directory are listed under their own category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTools()
	},
}

func listTools() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reg := tools.NewRegistry(zap.NewNop().Sugar())
	deps := tools.DefaultDeps(true)
	defer deps.Browser.Close()

	if err := tools.RegisterBuiltins(reg, deps); err != nil {
		return fmt.Errorf("register builtin tools: %w", err)
	}
	if cfg.Tools.SpecDir != "" {
		// Listing never executes anything, so load specs regardless of
		// the allow_dynamic gate.
		if _, err := tools.LoadSpecDir(reg, cfg.Tools.SpecDir, tools.DynamicDeps{
			Launcher:       deps.Launcher,
			Browser:        deps.Browser,
			ShellAllowList: cfg.Tools.ShellAllowList,
		}); err != nil {
			fmt.Printf("warning: could not load dynamic tools: %v\n", err)
		}
	}

	categories := reg.Categories()
	names := make([]string, 0, len(categories))
	for cat := range categories {
		names = append(names, cat)
	}
	sort.Strings(names)

	heading := color.New(color.FgCyan, color.Bold)
	toolName := color.New(color.FgGreen)

	for _, cat := range names {
		heading.Printf("%s\n", cat)
		for _, name := range categories[cat] {
			t, ok := reg.Get(name)
			if !ok {
				continue
			}
			toolName.Printf("  %s", t.Name)
			fmt.Printf(" - %s", t.Description)
			if t.NeedsVision {
				fmt.Printf(" (vision)")
			}
			fmt.Println()
		}
		fmt.Println()
	}

	fmt.Printf("%d tools\n", reg.Len())
	return nil
}
