// Package models defines the shared data types for GLOW runs: observations,
// intents, plans, execution results and verification reports. Types here are
// pure data with small helper methods; behavior lives in internal packages.
package models

import "fmt"

// IntentDecision is the Planner's answer to "what is the single next action".
type IntentDecision struct {
	// Intent is the action category (open_app, search, navigate, type, click, ...).
	Intent string `json:"intent"`
	// Target is the specific object of the intent (app name, URL, text).
	Target string `json:"target"`
	// GoalAchieved signals the user's request is satisfied.
	GoalAchieved bool `json:"goal_achieved"`
	// Message is the final response when GoalAchieved is true.
	Message string `json:"message,omitempty"`
}

// Signature returns the compact context:intent:target key used for
// duplicate-action detection.
func (d IntentDecision) Signature(ctx ContextType) string {
	return fmt.Sprintf("%s:%s:%s", ctx, d.Intent, d.Target)
}

// Entities is the entity bag extracted during query normalization.
type Entities struct {
	App     string `json:"app,omitempty"`
	Website string `json:"website,omitempty"`
	Query   string `json:"query,omitempty"`
}

// NormalizedIntent is the structured form of a goal produced once per run.
// It is advisory: absence degrades gracefully to using the raw goal text.
type NormalizedIntent struct {
	// Goal is the one-sentence restatement of the request.
	Goal string `json:"goal"`
	// Steps are informal, ordered step descriptions.
	Steps []string `json:"steps,omitempty"`
	// Entities holds the extracted app/website/query targets.
	Entities Entities `json:"entities"`
	// UseCurrentWindow indicates the plan assumes the active window.
	UseCurrentWindow bool `json:"use_current_window,omitempty"`
}

// Empty reports whether normalization produced nothing usable.
func (n *NormalizedIntent) Empty() bool {
	return n == nil || (n.Goal == "" && len(n.Steps) == 0)
}
