// Package planner provides the LLM planning capability for GLOW: query
// normalization, single-step intent extraction, multi-step plan creation,
// result verification, and plain conversation. Provider differences are
// transport details hidden behind the Planner interface.
package planner

import (
	"context"
	"encoding/json"

	"github.com/glowdesk/glow/pkg/models"
)

// NextActionRequest carries everything the Planner needs to decide the
// single next action toward a goal.
type NextActionRequest struct {
	// Goal is the raw user request.
	Goal string
	// Context is the current screen classification.
	Context models.ContextType
	// WindowTitle is the active window title from the last observation.
	WindowTitle string
	// Normalized is the optional structured goal; nil degrades to raw text.
	Normalized *models.NormalizedIntent
	// History is a short window of prior action signatures, newest last,
	// included to discourage repetition.
	History []string
}

// PlanRequest carries everything the Planner needs to produce a full
// multi-step plan.
type PlanRequest struct {
	// Goal is the raw user request.
	Goal string
	// ToolSignatures are natural-language signatures of the available tools.
	ToolSignatures []string
	// Memory is opaque conversational context from the memory collaborator.
	Memory string
	// ActiveWindow is the current window title, when known.
	ActiveWindow string
}

// PlanResponse is either a conversational reply or a structured plan.
type PlanResponse struct {
	// Conversation is set when no tools are needed.
	Conversation string
	// Plan is set when the Planner produced an executable plan.
	Plan *models.Plan
}

// Planner converts natural language into structured intents or plans. It is
// a remote capability with latency and parse-failure modes; implementations
// must degrade to textual fallbacks rather than fail hard on malformed
// replies.
type Planner interface {
	// Normalize restates the goal as a structured intent. Best effort: a
	// parse failure returns an error and the caller proceeds without it.
	Normalize(ctx context.Context, goal string) (*models.NormalizedIntent, error)

	// NextAction asks for exactly one next action given current context.
	NextAction(ctx context.Context, req NextActionRequest) (*models.IntentDecision, error)

	// CreatePlan asks for a complete multi-step plan, or a conversational
	// reply when the request needs no tools.
	CreatePlan(ctx context.Context, req PlanRequest) (*PlanResponse, error)

	// Verify judges whether the execution results satisfy the goal.
	Verify(ctx context.Context, goal string, results []models.ExecutionResult, expected string) (*models.VerificationReport, error)

	// Converse produces a plain conversational reply.
	Converse(ctx context.Context, prompt string, history []models.Message) (string, error)

	// DefineTool asks for a declarative tool spec (data, not code) for a
	// capability the registry lacks. The raw document is validated and
	// parsed by the tools package.
	DefineTool(ctx context.Context, description, suggestedName string) (json.RawMessage, error)
}

// ScreenAction is the action portion of a vision decision.
type ScreenAction struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
	Reasoning  string         `json:"reasoning,omitempty"`
}

// ScreenDecision is the outcome of one see-decide iteration.
type ScreenDecision struct {
	// Observation describes what the model saw on screen.
	Observation string `json:"observation"`
	// NextAction is nil when the goal is achieved.
	NextAction *ScreenAction `json:"next_action"`
	// GoalAchieved signals the run is complete.
	GoalAchieved bool `json:"goal_achieved"`
	// Progress is a brief progress summary, used as the final message.
	Progress string `json:"progress,omitempty"`
}

// VisionPlanner extends Planner with screenshot-guided decisions. It is the
// expensive fallback path; the orchestrator only consults it when a
// deterministic handler explicitly requests visual assistance.
type VisionPlanner interface {
	Planner

	// AnalyzeScreen looks at a PNG screenshot and decides the next action.
	AnalyzeScreen(ctx context.Context, goal string, screenshot []byte, notes []string) (*ScreenDecision, error)
}
