package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/glowdesk/glow/internal/memory"
)

var recallLimit int

var rememberCmd = &cobra.Command{
	Use:   "remember <key> <value>",
	Short: "Store a long-term fact",
	Long: `Store a fact in long-term memory under a key.

Facts persist across sessions and are available to the planner, e.g.:
  glow remember favorite_browser firefox`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		key := args[0]
		value := strings.Join(args[1:], " ")
		if err := store.RememberFact(key, value); err != nil {
			return fmt.Errorf("remember fact: %w", err)
		}
		fmt.Printf("Remembered %s = %s\n", key, value)
		return nil
	},
}

var recallCmd = &cobra.Command{
	Use:   "recall [key]",
	Short: "Recall a fact or recent interactions",
	Long: `Recall a stored fact by key, or with no arguments list recent
interactions from long-term memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) > 0 {
			value, err := store.RecallFact(args[0])
			if err != nil {
				return fmt.Errorf("recall fact: %w", err)
			}
			if value == "" {
				fmt.Fprintf(os.Stderr, "No fact stored for %q\n", args[0])
				os.Exit(1)
			}
			fmt.Println(value)
			return nil
		}

		interactions, err := store.RecentInteractions(recallLimit)
		if err != nil {
			return fmt.Errorf("list interactions: %w", err)
		}
		if len(interactions) == 0 {
			fmt.Println("No interactions recorded yet.")
			return nil
		}

		when := color.New(color.Faint)
		who := color.New(color.FgCyan, color.Bold)
		for _, it := range interactions {
			when.Printf("%s\n", it.At.Format("2006-01-02 15:04"))
			who.Printf("  you:  ")
			fmt.Println(it.User)
			who.Printf("  glow: ")
			fmt.Println(it.Assistant)
		}
		return nil
	},
}

func init() {
	recallCmd.Flags().IntVarP(&recallLimit, "limit", "n", 10, "Number of interactions to show")
}

func openStore() (*memory.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := memory.Open(memoryPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}
	return store, nil
}
