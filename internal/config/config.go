// Package config handles configuration loading and management for GLOW.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for GLOW.
type Config struct {
	Anthropic    AnthropicConfig    `mapstructure:"anthropic"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Tools        ToolsConfig        `mapstructure:"tools"`
	Memory       MemoryConfig       `mapstructure:"memory"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// AnthropicConfig holds Anthropic API settings for the planner.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key; ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model is the Claude model name used for planning.
	Model string `mapstructure:"model"`
	// UseBedrock routes planner calls through AWS Bedrock instead of the direct API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion is the Bedrock region (e.g. "us-west-2").
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional shared-config profile for Bedrock.
	AWSProfile string `mapstructure:"aws_profile"`
}

// OrchestratorConfig holds control-loop settings.
type OrchestratorConfig struct {
	// MaxIterations is the hard safety bound on loop iterations per run.
	MaxIterations int `mapstructure:"max_iterations"`
	// SettleTimeout bounds the wait for the screen to stabilize after an action.
	SettleTimeout time.Duration `mapstructure:"settle_timeout"`
	// DenyList are case-insensitive substrings that block an intent/target.
	DenyList []string `mapstructure:"deny_list"`
	// PlanMode executes a full multi-step plan instead of the iterative loop.
	PlanMode bool `mapstructure:"plan_mode"`
	// SignalsDir is where emergency-stop signal files are watched.
	SignalsDir string `mapstructure:"signals_dir"`
}

// ToolsConfig holds tool registry settings.
type ToolsConfig struct {
	// AllowDynamic enables registration of planner-defined declarative tools.
	AllowDynamic bool `mapstructure:"allow_dynamic"`
	// SpecDir is where dynamic tool specs are stored as YAML.
	SpecDir string `mapstructure:"spec_dir"`
	// ShellAllowList restricts which executables dynamic shell steps may run.
	ShellAllowList []string `mapstructure:"shell_allow_list"`
	// BrowserHeadless runs the managed Chrome session without a window.
	BrowserHeadless bool `mapstructure:"browser_headless"`
}

// MemoryConfig holds conversation and long-term memory settings.
type MemoryConfig struct {
	// MaxTurns bounds the short-term conversation window.
	MaxTurns int `mapstructure:"max_turns"`
	// Dir is where the long-term store keeps its database.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File is an optional log file path; empty logs to stderr.
	File string `mapstructure:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY)
// 2. Project config (.glow.yaml in current directory or parent)
// 3. User config (~/.config/glow/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config takes precedence over user config
	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("orchestrator.max_iterations", cfg.Orchestrator.MaxIterations)
	v.Set("orchestrator.settle_timeout", cfg.Orchestrator.SettleTimeout.String())
	v.Set("orchestrator.deny_list", cfg.Orchestrator.DenyList)
	v.Set("orchestrator.plan_mode", cfg.Orchestrator.PlanMode)
	v.Set("orchestrator.signals_dir", cfg.Orchestrator.SignalsDir)
	v.Set("tools.allow_dynamic", cfg.Tools.AllowDynamic)
	v.Set("tools.spec_dir", cfg.Tools.SpecDir)
	v.Set("tools.shell_allow_list", cfg.Tools.ShellAllowList)
	v.Set("tools.browser_headless", cfg.Tools.BrowserHeadless)
	v.Set("memory.max_turns", cfg.Memory.MaxTurns)
	v.Set("memory.dir", cfg.Memory.Dir)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.file", cfg.Logging.File)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// DefaultDenyList are the intent/target substrings GLOW refuses to act on.
func DefaultDenyList() []string {
	return []string{"banking", "password", "captcha", "admin", "sudo", "registry"}
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.use_bedrock", false)

	v.SetDefault("orchestrator.max_iterations", 10)
	v.SetDefault("orchestrator.settle_timeout", "3s")
	v.SetDefault("orchestrator.deny_list", DefaultDenyList())
	v.SetDefault("orchestrator.plan_mode", false)
	v.SetDefault("orchestrator.signals_dir", "")

	v.SetDefault("tools.allow_dynamic", false)
	v.SetDefault("tools.spec_dir", "")
	v.SetDefault("tools.shell_allow_list", []string{"xdg-open", "notify-send"})
	v.SetDefault("tools.browser_headless", false)

	v.SetDefault("memory.max_turns", 10)
	v.SetDefault("memory.dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
}

// getUserConfigDir returns the XDG config directory for GLOW.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "glow")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "glow")
	}
	return filepath.Join(home, ".config", "glow")
}

// findProjectConfig searches for .glow.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".glow.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model: "claude-sonnet-4-5-20250929",
		},
		Orchestrator: OrchestratorConfig{
			MaxIterations: 10,
			SettleTimeout: 3 * time.Second,
			DenyList:      DefaultDenyList(),
		},
		Tools: ToolsConfig{
			ShellAllowList: []string{"xdg-open", "notify-send"},
		},
		Memory: MemoryConfig{
			MaxTurns: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DataDir returns the XDG data directory for GLOW (used for memory and
// dynamic tool specs when not configured explicitly).
func DataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "glow")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".glow")
	}
	return filepath.Join(home, ".local", "share", "glow")
}
