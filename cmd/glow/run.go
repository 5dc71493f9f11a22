package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	runPlan          bool
	runYes           bool
	runMaxIterations int
	runHeadless      bool
	runAllowDynamic  bool
)

var runCmd = &cobra.Command{
	Use:   "run <goal>",
	Short: "Execute a single goal and exit",
	Long: `Run one natural-language goal against the desktop without the chat
interface.

By default the goal is driven by the iterative loop: observe the screen,
decide one action, execute, re-observe, until the goal is achieved or the
iteration bound is hit.

With --plan, a complete multi-step plan is produced up front and executed
step by step, with results chained between steps and the outcome verified
at the end. Plans that touch files or the shell ask for confirmation
unless --yes is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(strings.Join(args, " "))
	},
}

func init() {
	runCmd.Flags().BoolVar(&runPlan, "plan", false, "Plan all steps up front instead of re-planning each action")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Skip plan confirmation prompts")
	runCmd.Flags().IntVar(&runMaxIterations, "max-iterations", 0, "Override the loop iteration bound")
	runCmd.Flags().BoolVar(&runHeadless, "headless-browser", false, "Run the managed browser without a window")
	runCmd.Flags().BoolVar(&runAllowDynamic, "allow-dynamic", false, "Allow the planner to define new declarative tools")
}

func runOnce(goal string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runMaxIterations > 0 {
		cfg.Orchestrator.MaxIterations = runMaxIterations
	}
	if runHeadless {
		cfg.Tools.BrowserHeadless = true
	}
	if runAllowDynamic {
		cfg.Tools.AllowDynamic = true
	}

	confirm := confirmOnTerminal
	if runYes {
		confirm = nil
	}

	a, err := buildAssistant(cfg, confirm)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	color.New(color.FgCyan, color.Bold).Printf("goal: ")
	fmt.Println(goal)

	a.conversation.AddUser(goal)

	var reply string
	if runPlan || cfg.Orchestrator.PlanMode {
		reply = a.orch.RunPlan(ctx, goal)
	} else {
		reply = a.orch.Run(ctx, goal)
	}

	a.conversation.AddAssistant(reply)
	if err := a.store.StoreInteraction(goal, reply, nil); err != nil {
		a.logger.Warnw("storing interaction", "error", err)
	}

	color.New(color.FgMagenta, color.Bold).Printf("glow: ")
	fmt.Println(reply)

	tracker := a.client.Tracker()
	input, output := tracker.Total()
	color.New(color.Faint).Printf("(%d planner calls, %d in / %d out tokens, ~$%.4f)\n",
		tracker.Calls(), input, output, tracker.Cost())
	a.logUsage(goal)
	return nil
}

// confirmOnTerminal asks the user to approve a plan on stdin.
func confirmOnTerminal(message string) bool {
	color.New(color.FgYellow).Println(message)
	fmt.Print("Proceed? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
