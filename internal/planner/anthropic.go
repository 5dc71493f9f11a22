package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/glowdesk/glow/pkg/models"
)

// completer is the transport seam between prompt construction and the
// Anthropic SDK. Tests substitute a canned implementation.
type completer interface {
	complete(ctx context.Context, system, user string, maxTokens int64) (string, error)
	completeWithImage(ctx context.Context, user string, png []byte, maxTokens int64) (string, error)
}

// Anthropic implements Planner and VisionPlanner on the Claude API.
type Anthropic struct {
	llm completer
}

// NewAnthropic creates a planner backed by the given client.
func NewAnthropic(client *Client) *Anthropic {
	return &Anthropic{llm: client}
}

var _ VisionPlanner = (*Anthropic)(nil)

const normalizeSystem = `You are a command normalizer for a desktop AI assistant.
Correct grammar and ambiguity, infer missing but obvious steps, and convert
the user's request into a clear, executable plan. Do NOT execute anything.
Return STRICT JSON only, no explanations.`

// Normalize restates the goal as a structured intent.
func (a *Anthropic) Normalize(ctx context.Context, goal string) (*models.NormalizedIntent, error) {
	user := fmt.Sprintf(`User input:
%q

Return JSON of this shape:
{
  "goal": "One sentence clear goal",
  "steps": ["Step 1 description", "Step 2 description"],
  "entities": {"app": null, "website": null, "query": null},
  "use_current_window": false
}

RULES:
- "app" is the browser/app to open (e.g. "chrome", "notepad")
- "website" is the target URL or site (e.g. "amazon.com")
- "query" is the search term if any
- "steps" are clear, ordered actions`, goal)

	reply, err := a.llm.complete(ctx, normalizeSystem, user, 500)
	if err != nil {
		return nil, err
	}

	var n models.NormalizedIntent
	if err := extractJSON(reply, &n); err != nil {
		return nil, err
	}
	if n.Empty() {
		return nil, fmt.Errorf("normalization produced no usable plan")
	}
	return &n, nil
}

const nextActionSystem = `You are a desktop automation assistant. Decide the
SINGLE next action that progresses toward the user's goal. Respond ONLY with
JSON of this shape:
{
  "intent": "open_app | search | navigate | type | click | save | close | done",
  "target": "specific target (app name, URL, text)",
  "goal_achieved": false,
  "message": "only if goal_achieved is true"
}
If every step is already done, set goal_achieved true. Never repeat an action
listed as already completed.`

// NextAction asks for exactly one next action given current context.
// A reply without parseable JSON is treated as a conversational completion:
// goal achieved with the raw text as message.
func (a *Anthropic) NextAction(ctx context.Context, req NextActionRequest) (*models.IntentDecision, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "USER REQUEST: %q\n", req.Goal)
	fmt.Fprintf(&b, "CURRENT CONTEXT: %s\n", req.Context)
	if req.WindowTitle != "" {
		fmt.Fprintf(&b, "ACTIVE WINDOW: %s\n", req.WindowTitle)
	}

	if !req.Normalized.Empty() {
		fmt.Fprintf(&b, "\nNORMALIZED PLAN:\nGoal: %s\n", req.Normalized.Goal)
		if req.Normalized.Entities.App != "" {
			fmt.Fprintf(&b, "App to use: %s\n", req.Normalized.Entities.App)
		}
		if req.Normalized.Entities.Website != "" {
			fmt.Fprintf(&b, "Website: %s\n", req.Normalized.Entities.Website)
		}
		if req.Normalized.Entities.Query != "" {
			fmt.Fprintf(&b, "Search query: %s\n", req.Normalized.Entities.Query)
		}
		if len(req.Normalized.Steps) > 0 {
			fmt.Fprintf(&b, "Steps: %s\n", strings.Join(req.Normalized.Steps, ", "))
		}
		b.WriteString("Follow the steps in order and decide the NEXT action.\n")
	}

	if len(req.History) > 0 {
		b.WriteString("\nACTIONS ALREADY COMPLETED:\n")
		for i, action := range req.History {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, action)
		}
		b.WriteString("Do NOT repeat these actions. Provide the NEXT step.\n")
	}

	reply, err := a.llm.complete(ctx, nextActionSystem, b.String(), 200)
	if err != nil {
		return nil, err
	}

	var d models.IntentDecision
	if err := extractJSON(reply, &d); err != nil {
		// Free text means the model answered conversationally; the goal
		// needs no further tool action.
		return &models.IntentDecision{GoalAchieved: true, Message: reply}, nil
	}
	return &d, nil
}

const planSystem = `You are an intelligent task planner for GLOW, a desktop
assistant. Create a step-by-step execution plan using ONLY the listed tools
and their EXACT parameter names. If the request needs no tools, reply with a
short conversational answer instead of JSON. If a needed tool does not exist,
plan a "CREATE_NEW_TOOL" step with tool_description and suggested_name
parameters, then use the new tool in later steps. Steps may reference earlier
outputs as $stepN_result.`

// CreatePlan asks for a complete multi-step plan.
func (a *Anthropic) CreatePlan(ctx context.Context, req PlanRequest) (*PlanResponse, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "USER REQUEST: %q\n", req.Goal)
	if req.ActiveWindow != "" {
		fmt.Fprintf(&b, "ACTIVE WINDOW: %s\n", req.ActiveWindow)
	}
	if req.Memory != "" {
		fmt.Fprintf(&b, "\nRECENT CONVERSATION:\n%s\n", req.Memory)
	}
	b.WriteString("\nAVAILABLE TOOLS:\n")
	for _, sig := range req.ToolSignatures {
		fmt.Fprintf(&b, "  - %s\n", sig)
	}
	b.WriteString(`
RESPONSE FORMAT (JSON):
{
  "analysis": "Brief analysis of what the user wants",
  "steps": [
    {"step": 1, "description": "...", "tool": "tool_name",
     "parameters": {"param1": "value1"}, "expected_outcome": "..."}
  ],
  "final_response": "What to tell the user when done",
  "requires_confirmation": false
}
`)

	reply, err := a.llm.complete(ctx, planSystem, b.String(), 2000)
	if err != nil {
		return nil, err
	}

	var plan models.Plan
	if err := extractJSON(reply, &plan); err != nil || len(plan.Steps) == 0 {
		return &PlanResponse{Conversation: reply}, nil
	}
	return &PlanResponse{Plan: &plan}, nil
}

const verifySystem = `You are a verification agent. Analyze whether the
execution results satisfy the user's request. Respond with JSON:
{
  "verification_status": "success|partial|failed",
  "issues": ["list of any issues found"],
  "user_response": "Friendly message to the user",
  "suggestions": ["optional suggestions"]
}`

// Verify judges whether the execution results satisfy the goal.
// A reply without parseable structure is treated as a success whose
// user message is the raw text.
func (a *Anthropic) Verify(ctx context.Context, goal string, results []models.ExecutionResult, expected string) (*models.VerificationReport, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "USER REQUEST: %q\n", goal)
	if expected != "" {
		fmt.Fprintf(&b, "EXPECTED OUTCOME: %s\n", expected)
	}
	b.WriteString("\nEXECUTION RESULTS:\n")
	for _, r := range results {
		status := "FAILED"
		detail := r.Error
		if r.Success {
			status = "OK"
			detail = r.Result
		}
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", r.Tool, detail, status)
	}

	reply, err := a.llm.complete(ctx, verifySystem, b.String(), 1024)
	if err != nil {
		return nil, err
	}

	var report models.VerificationReport
	if err := extractJSON(reply, &report); err != nil {
		return &models.VerificationReport{
			Status:      models.VerifySuccess,
			UserMessage: reply,
		}, nil
	}
	if !report.Status.Valid() {
		report.Status = models.VerifyPartial
	}
	return &report, nil
}

const converseSystem = `You are GLOW, a friendly desktop assistant.
Answer conversationally and concisely.`

// Converse produces a plain conversational reply.
func (a *Anthropic) Converse(ctx context.Context, prompt string, history []models.Message) (string, error) {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("RECENT CONVERSATION:\n")
		for _, m := range history {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
		b.WriteString("\n")
	}
	b.WriteString(prompt)

	return a.llm.complete(ctx, converseSystem, b.String(), 1024)
}

const defineToolSystem = `You define new tools for a desktop assistant as
DATA, never as code. A tool spec composes primitive operations from a fixed
set: launch, navigate, search, shell, write_file. Respond ONLY with JSON:
{
  "name": "snake_case_tool_name",
  "description": "what the tool does",
  "params": [{"name": "param", "required": true, "aliases": ["alt_name"]}],
  "steps": [{"op": "launch|navigate|search|shell|write_file", "args": {"key": "value or {param} reference"}}]
}`

// DefineTool asks for a declarative tool spec.
func (a *Anthropic) DefineTool(ctx context.Context, description, suggestedName string) (json.RawMessage, error) {
	user := fmt.Sprintf("TOOL DESCRIPTION: %s\nSUGGESTED NAME: %s\n", description, suggestedName)

	reply, err := a.llm.complete(ctx, defineToolSystem, user, 800)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := extractJSON(reply, &raw); err != nil {
		return nil, fmt.Errorf("tool spec reply not parseable: %w", err)
	}
	return raw, nil
}

const visionSystem = `You are controlling a desktop PC. Look at the screenshot
and decide the SINGLE next action toward the goal. Respond in JSON:
{
  "observation": "What I see on screen",
  "next_action": {"tool": "tool_name", "parameters": {"param": "value"}, "reasoning": "why"},
  "goal_achieved": false,
  "progress": "Brief progress summary"
}
If the goal is achieved, set goal_achieved true and next_action null.`

// AnalyzeScreen looks at a PNG screenshot and decides the next action.
func (a *Anthropic) AnalyzeScreen(ctx context.Context, goal string, screenshot []byte, notes []string) (*ScreenDecision, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "GOAL: %q\n", goal)
	if len(notes) > 0 {
		b.WriteString("\nPREVIOUS STEPS:\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}

	reply, err := a.llm.completeWithImage(ctx, visionSystem+"\n\n"+b.String(), screenshot, 1024)
	if err != nil {
		return nil, err
	}

	var d ScreenDecision
	if err := extractJSON(reply, &d); err != nil {
		return nil, fmt.Errorf("vision reply not parseable: %w", err)
	}
	return &d, nil
}
