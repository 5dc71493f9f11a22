package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/glowdesk/glow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify GLOW configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/glow/config.yaml
Project-specific overrides can be placed in .glow.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	// Mask API key if set
	apiKeyDisplay := "(not set)"
	if cfg.Anthropic.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("orchestrator.max_iterations: %d\n", cfg.Orchestrator.MaxIterations)
	fmt.Printf("orchestrator.settle_timeout: %s\n", cfg.Orchestrator.SettleTimeout)
	fmt.Printf("orchestrator.deny_list: %s\n", strings.Join(cfg.Orchestrator.DenyList, ", "))
	fmt.Printf("orchestrator.plan_mode: %t\n", cfg.Orchestrator.PlanMode)
	fmt.Printf("tools.allow_dynamic: %t\n", cfg.Tools.AllowDynamic)
	fmt.Printf("tools.spec_dir: %s\n", cfg.Tools.SpecDir)
	fmt.Printf("tools.shell_allow_list: %s\n", strings.Join(cfg.Tools.ShellAllowList, ", "))
	fmt.Printf("tools.browser_headless: %t\n", cfg.Tools.BrowserHeadless)
	fmt.Printf("memory.max_turns: %d\n", cfg.Memory.MaxTurns)
	fmt.Printf("logging.level: %s\n", cfg.Logging.Level)
	fmt.Printf("logging.file: %s\n", cfg.Logging.File)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "orchestrator.max_iterations":
		return strconv.Itoa(cfg.Orchestrator.MaxIterations), nil
	case "orchestrator.settle_timeout":
		return cfg.Orchestrator.SettleTimeout.String(), nil
	case "orchestrator.deny_list":
		return strings.Join(cfg.Orchestrator.DenyList, ","), nil
	case "orchestrator.plan_mode":
		return strconv.FormatBool(cfg.Orchestrator.PlanMode), nil
	case "orchestrator.signals_dir":
		return cfg.Orchestrator.SignalsDir, nil
	case "tools.allow_dynamic":
		return strconv.FormatBool(cfg.Tools.AllowDynamic), nil
	case "tools.spec_dir":
		return cfg.Tools.SpecDir, nil
	case "tools.shell_allow_list":
		return strings.Join(cfg.Tools.ShellAllowList, ","), nil
	case "tools.browser_headless":
		return strconv.FormatBool(cfg.Tools.BrowserHeadless), nil
	case "memory.max_turns":
		return strconv.Itoa(cfg.Memory.MaxTurns), nil
	case "memory.dir":
		return cfg.Memory.Dir, nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "logging.file":
		return cfg.Logging.File, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "orchestrator.max_iterations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_iterations: %w", err)
		}
		cfg.Orchestrator.MaxIterations = n
	case "orchestrator.settle_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for settle_timeout: %w", err)
		}
		cfg.Orchestrator.SettleTimeout = d
	case "orchestrator.deny_list":
		cfg.Orchestrator.DenyList = splitList(value)
	case "orchestrator.plan_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for plan_mode: %w", err)
		}
		cfg.Orchestrator.PlanMode = b
	case "orchestrator.signals_dir":
		cfg.Orchestrator.SignalsDir = value
	case "tools.allow_dynamic":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for allow_dynamic: %w", err)
		}
		cfg.Tools.AllowDynamic = b
	case "tools.spec_dir":
		cfg.Tools.SpecDir = value
	case "tools.shell_allow_list":
		cfg.Tools.ShellAllowList = splitList(value)
	case "tools.browser_headless":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for browser_headless: %w", err)
		}
		cfg.Tools.BrowserHeadless = b
	case "memory.max_turns":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_turns: %w", err)
		}
		cfg.Memory.MaxTurns = n
	case "memory.dir":
		cfg.Memory.Dir = value
	case "logging.level":
		cfg.Logging.Level = value
	case "logging.file":
		cfg.Logging.File = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// splitList parses a comma-separated list, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
