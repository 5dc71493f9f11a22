package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/glowdesk/glow/internal/config"
	"github.com/glowdesk/glow/internal/tui"
)

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRootFlags(cfg)

	// The TUI owns the terminal; route logs to a file so they do not tear
	// the screen.
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(os.TempDir(), "glow", "glow.log")
	}

	// Plan confirmations cannot prompt on stdin while the TUI is active,
	// so interactive mode auto-confirms and relies on the deny list plus
	// the emergency stop.
	a, err := buildAssistant(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	program, app := tui.NewChatProgram()

	go func() {
		<-sigCh
		cancel()
		program.Quit()
	}()

	app.SetGoalHandler(func(goal string, plan bool) {
		go func() {
			a.conversation.AddUser(goal)

			var reply string
			if plan || cfg.Orchestrator.PlanMode {
				reply = a.orch.RunPlan(ctx, goal)
			} else {
				reply = a.orch.Run(ctx, goal)
			}

			a.conversation.AddAssistant(reply)
			if err := a.store.StoreInteraction(goal, reply, nil); err != nil {
				a.logger.Warnw("storing interaction", "error", err)
			}
			a.logUsage(goal)

			program.Send(tui.AssistantReplyMsg{Text: reply})
		}()
	})

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

// applyRootFlags folds root-command flags into the loaded configuration.
func applyRootFlags(cfg *config.Config) {
	if rootHeadless {
		cfg.Tools.BrowserHeadless = true
	}
	if rootAllowDynamic {
		cfg.Tools.AllowDynamic = true
	}
}
