// Package policy defines configurable policy parameters for orchestrator
// behavior. This centralizes the loop bounds, guard windows, and keyword
// tables that would otherwise be scattered across implementation files,
// enabling configuration and testing.
package policy

import "time"

// Config contains all configurable policy parameters for a run.
type Config struct {
	// Loop bounds the re-planning loop.
	Loop LoopPolicy

	// Safety controls the deny list.
	Safety SafetyPolicy

	// Guard controls duplicate-action detection.
	Guard GuardPolicy

	// Fallback maps intent keywords to tool names when no handler serves.
	Fallback FallbackPolicy
}

// LoopPolicy controls the re-planning loop.
type LoopPolicy struct {
	// MaxIterations is the hard bound on loop iterations per request.
	MaxIterations int

	// SettleTimeout bounds the screen-stabilization wait after an action.
	SettleTimeout time.Duration

	// HistoryWindow is how many prior action signatures are shown to the
	// planner to discourage repetition.
	HistoryWindow int
}

// SafetyPolicy controls refusal of unsafe actions.
type SafetyPolicy struct {
	// DenyList are substrings of intent+target that block the action.
	DenyList []string
}

// GuardPolicy controls duplicate-action detection.
type GuardPolicy struct {
	// Window is how many recent signatures are scanned for a duplicate.
	Window int
}

// FallbackPolicy maps intent keywords to fallback tools, tried in order.
type FallbackPolicy struct {
	// Rules pair intent keywords with the tool to invoke when a context
	// handler cannot serve the intent.
	Rules []FallbackRule
}

// FallbackRule is one keyword-to-tool mapping.
type FallbackRule struct {
	// Keywords match against the lowercased intent.
	Keywords []string
	// Tool is invoked with the target under ParamKey.
	Tool string
	// ParamKey names the parameter carrying the target.
	ParamKey string
}

// Default returns the default policy configuration.
func Default() *Config {
	return &Config{
		Loop: LoopPolicy{
			MaxIterations: 10,
			SettleTimeout: 3 * time.Second,
			HistoryWindow: 5,
		},
		Safety: SafetyPolicy{
			DenyList: []string{"banking", "password", "captcha", "admin", "sudo", "registry"},
		},
		Guard: GuardPolicy{
			Window: 3,
		},
		Fallback: FallbackPolicy{
			Rules: []FallbackRule{
				{Keywords: []string{"open", "launch", "start"}, Tool: "launch_application", ParamKey: "app_name"},
				{Keywords: []string{"search"}, Tool: "search_google", ParamKey: "query"},
				{Keywords: []string{"navigate", "go"}, Tool: "open_website", ParamKey: "url"},
				{Keywords: []string{"type"}, Tool: "type_text", ParamKey: "text"},
			},
		},
	}
}

// Validate clamps policy values to acceptable ranges.
func (c *Config) Validate() error {
	if c.Loop.MaxIterations < 1 {
		c.Loop.MaxIterations = 10
	}
	if c.Loop.SettleTimeout <= 0 {
		c.Loop.SettleTimeout = 3 * time.Second
	}
	if c.Loop.HistoryWindow < 1 {
		c.Loop.HistoryWindow = 5
	}
	if c.Guard.Window < 1 {
		c.Guard.Window = 3
	}
	if len(c.Fallback.Rules) == 0 {
		c.Fallback = Default().Fallback
	}
	return nil
}
