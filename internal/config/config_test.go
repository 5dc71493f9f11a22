package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Orchestrator.MaxIterations != 10 {
		t.Errorf("expected default max_iterations 10, got %d", cfg.Orchestrator.MaxIterations)
	}

	if cfg.Orchestrator.SettleTimeout != 3*time.Second {
		t.Errorf("expected settle timeout 3s, got %v", cfg.Orchestrator.SettleTimeout)
	}

	if len(cfg.Orchestrator.DenyList) == 0 {
		t.Fatal("expected a non-empty default deny list")
	}

	found := false
	for _, word := range cfg.Orchestrator.DenyList {
		if word == "banking" {
			found = true
		}
	}
	if !found {
		t.Error("expected 'banking' in the default deny list")
	}

	if cfg.Tools.AllowDynamic {
		t.Error("expected dynamic tools to be disabled by default")
	}

	if cfg.Memory.MaxTurns != 10 {
		t.Errorf("expected memory max_turns 10, got %d", cfg.Memory.MaxTurns)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-haiku-4-5-20251001
orchestrator:
  max_iterations: 5
  settle_timeout: 1500ms
  deny_list:
    - banking
    - bitlocker
tools:
  allow_dynamic: true
  browser_headless: true
memory:
  max_turns: 4
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("unexpected model %q", cfg.Anthropic.Model)
	}

	if cfg.Orchestrator.MaxIterations != 5 {
		t.Errorf("expected max_iterations 5, got %d", cfg.Orchestrator.MaxIterations)
	}

	if cfg.Orchestrator.SettleTimeout != 1500*time.Millisecond {
		t.Errorf("expected settle timeout 1.5s, got %v", cfg.Orchestrator.SettleTimeout)
	}

	if len(cfg.Orchestrator.DenyList) != 2 || cfg.Orchestrator.DenyList[1] != "bitlocker" {
		t.Errorf("unexpected deny list %v", cfg.Orchestrator.DenyList)
	}

	if !cfg.Tools.AllowDynamic {
		t.Error("expected tools.allow_dynamic to be true")
	}

	if !cfg.Tools.BrowserHeadless {
		t.Error("expected tools.browser_headless to be true")
	}

	if cfg.Memory.MaxTurns != 4 {
		t.Errorf("expected memory max_turns 4, got %d", cfg.Memory.MaxTurns)
	}
}

func TestLoadFromPathExpandsEnv(t *testing.T) {
	os.Setenv("GLOW_TEST_KEY", "sk-from-env")
	defer os.Unsetenv("GLOW_TEST_KEY")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: ${GLOW_TEST_KEY}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "sk-from-env" {
		t.Errorf("expected expanded api key, got %q", cfg.Anthropic.APIKey)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
