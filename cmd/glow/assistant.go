package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/glowdesk/glow/internal/config"
	"github.com/glowdesk/glow/internal/memory"
	"github.com/glowdesk/glow/internal/observer"
	"github.com/glowdesk/glow/internal/orchestrator"
	"github.com/glowdesk/glow/internal/orchestrator/policy"
	"github.com/glowdesk/glow/internal/planner"
	"github.com/glowdesk/glow/internal/tools"
)

// loadConfig loads configuration, honoring the --config override.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// assistant bundles the wired-up subsystems behind one handle so the
// interactive and one-shot commands share identical setup.
type assistant struct {
	cfg          *config.Config
	logger       *zap.SugaredLogger
	client       *planner.Client
	orch         *orchestrator.Orchestrator
	registry     *tools.Registry
	conversation *memory.Conversation
	store        *memory.Store
	stop         *orchestrator.StopWatcher
	browser      *tools.Browser

	closers []func() error
}

// buildAssistant constructs the full dependency graph from configuration.
// The confirm callback is consulted when a plan requires confirmation; nil
// means proceed without asking.
func buildAssistant(cfg *config.Config, confirm func(message string) bool) (*assistant, error) {
	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	client, err := planner.NewClient(planner.ClientConfig{
		Model:      cfg.Anthropic.Model,
		APIKey:     cfg.Anthropic.APIKey,
		UseBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:  cfg.Anthropic.AWSRegion,
		AWSProfile: cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create planner client: %w", err)
	}
	plan := planner.NewAnthropic(client)

	deps := tools.DefaultDeps(cfg.Tools.BrowserHeadless)
	registry := tools.NewRegistry(logger)
	if err := tools.RegisterBuiltins(registry, deps); err != nil {
		return nil, fmt.Errorf("register builtin tools: %w", err)
	}

	dynDeps := tools.DynamicDeps{
		Launcher:       deps.Launcher,
		Browser:        deps.Browser,
		ShellAllowList: cfg.Tools.ShellAllowList,
		RunShell:       tools.RunShellCommand,
	}
	if cfg.Tools.AllowDynamic && cfg.Tools.SpecDir != "" {
		names, err := tools.LoadSpecDir(registry, cfg.Tools.SpecDir, dynDeps)
		if err != nil {
			logger.Warnw("loading dynamic tool specs", "dir", cfg.Tools.SpecDir, "error", err)
		} else if len(names) > 0 {
			logger.Infow("loaded dynamic tools", "names", names)
		}
	}

	obs := observer.New(deps.Windows, logger)

	stop, err := orchestrator.NewStopWatcher(signalsDir(cfg))
	if err != nil {
		return nil, fmt.Errorf("create stop watcher: %w", err)
	}

	store, err := memory.Open(memoryPath(cfg))
	if err != nil {
		stop.Close()
		return nil, fmt.Errorf("open memory store: %w", err)
	}

	conversation := memory.NewConversation(cfg.Memory.MaxTurns)

	pol := policy.Default()
	pol.Loop.MaxIterations = cfg.Orchestrator.MaxIterations
	pol.Loop.SettleTimeout = cfg.Orchestrator.SettleTimeout
	if len(cfg.Orchestrator.DenyList) > 0 {
		pol.Safety.DenyList = cfg.Orchestrator.DenyList
	}

	orch := orchestrator.New(orchestrator.Options{
		Planner:      plan,
		Registry:     registry,
		Observer:     obs,
		Vision:       plan,
		Grabber:      observer.ScrotGrabber{},
		Stop:         stop,
		Policy:       pol,
		Conversation: conversation,
		Facts:        store,
		Confirm:      confirm,
		AllowDynamic: cfg.Tools.AllowDynamic,
		SpecDir:      cfg.Tools.SpecDir,
		DynamicDeps:  dynDeps,
		Logger:       logger,
	})

	a := &assistant{
		cfg:          cfg,
		logger:       logger,
		client:       client,
		orch:         orch,
		registry:     registry,
		conversation: conversation,
		store:        store,
		stop:         stop,
		browser:      deps.Browser,
	}
	a.closers = append(a.closers,
		store.Close,
		func() error { deps.Browser.Close(); return nil },
		func() error { stop.Close(); return nil },
		func() error { _ = logger.Sync(); return nil },
	)
	return a, nil
}

// logUsage records the planner token spend for the goal just finished and
// resets the tracker so the next goal is accounted separately.
func (a *assistant) logUsage(goal string) {
	tracker := a.client.Tracker()
	input, output := tracker.Total()
	a.logger.Infow("planner usage",
		"goal", goal,
		"calls", tracker.Calls(),
		"input_tokens", input,
		"output_tokens", output,
		"est_cost_usd", fmt.Sprintf("%.4f", tracker.Cost()),
	)
	tracker.Reset()
}

// Close releases every subsystem in reverse construction order.
func (a *assistant) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// buildLogger creates a zap logger per the logging configuration. An empty
// file path logs to stderr, which interactive mode redirects away from the
// terminal while the TUI owns the screen.
func buildLogger(cfg config.LoggingConfig) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		zcfg.OutputPaths = []string{cfg.File}
		zcfg.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// signalsDir returns the directory watched for emergency-stop files.
func signalsDir(cfg *config.Config) string {
	if cfg.Orchestrator.SignalsDir != "" {
		return cfg.Orchestrator.SignalsDir
	}
	return filepath.Join(os.TempDir(), "glow-signals")
}

// memoryPath returns the long-term memory database location.
func memoryPath(cfg *config.Config) string {
	if cfg.Memory.Dir != "" {
		return filepath.Join(cfg.Memory.Dir, "memory.db")
	}
	return memory.DefaultPath()
}
