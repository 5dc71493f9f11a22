package main

import (
	"testing"
	"time"

	"github.com/glowdesk/glow/internal/config"
)

func TestSetConfigValueRoundTrip(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"anthropic.model", "claude-haiku-4-5-20251001", "claude-haiku-4-5-20251001"},
		{"orchestrator.max_iterations", "5", "5"},
		{"orchestrator.settle_timeout", "1500ms", "1.5s"},
		{"orchestrator.deny_list", "banking, sudo", "banking,sudo"},
		{"tools.allow_dynamic", "true", "true"},
		{"tools.shell_allow_list", "xdg-open", "xdg-open"},
		{"memory.max_turns", "20", "20"},
		{"logging.level", "debug", "debug"},
	}

	for _, tt := range tests {
		if err := setConfigValue(cfg, tt.key, tt.value); err != nil {
			t.Fatalf("setConfigValue(%q, %q): %v", tt.key, tt.value, err)
		}
		got, err := getConfigValue(cfg, tt.key)
		if err != nil {
			t.Fatalf("getConfigValue(%q): %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("getConfigValue(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	if cfg.Orchestrator.SettleTimeout != 1500*time.Millisecond {
		t.Errorf("settle_timeout = %s, want 1.5s", cfg.Orchestrator.SettleTimeout)
	}
}

func TestSetConfigValueRejectsBadInput(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "orchestrator.max_iterations", "lots"); err == nil {
		t.Error("expected error for non-numeric max_iterations")
	}
	if err := setConfigValue(cfg, "tools.allow_dynamic", "maybe"); err == nil {
		t.Error("expected error for non-boolean allow_dynamic")
	}
	if err := setConfigValue(cfg, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestGetConfigValueMasksAPIKey(t *testing.T) {
	cfg := config.Default()

	got, err := getConfigValue(cfg, "anthropic.api_key")
	if err != nil {
		t.Fatal(err)
	}
	if got != "(not set)" {
		t.Errorf("empty key renders %q, want \"(not set)\"", got)
	}

	cfg.Anthropic.APIKey = "sk-ant-secret"
	got, _ = getConfigValue(cfg, "anthropic.api_key")
	if got != "****" {
		t.Errorf("set key renders %q, want masked", got)
	}
}
