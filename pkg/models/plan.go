package models

import "fmt"

// ToolCreateSentinel is the reserved tool name a Planner uses to request a
// new tool be defined before the plan can continue.
const ToolCreateSentinel = "CREATE_NEW_TOOL"

// PlanStep is one planned action within a multi-step plan.
type PlanStep struct {
	// Index is the 1-based position of the step within the plan.
	Index int `json:"step"`
	// Tool names a registry tool, or ToolCreateSentinel.
	Tool string `json:"tool"`
	// Parameters may contain unresolved variable references (e.g. $step1_result).
	Parameters map[string]any `json:"parameters,omitempty"`
	// Description is the human-readable explanation of the step.
	Description string `json:"description,omitempty"`
	// ExpectedOutcome is advisory only and never mechanically checked.
	ExpectedOutcome string `json:"expected_outcome,omitempty"`
}

// Plan is a full multi-step execution plan returned by a Planner.
type Plan struct {
	Analysis string     `json:"analysis,omitempty"`
	Steps    []PlanStep `json:"steps"`
	// FinalResponse is what to tell the user when every step is done.
	FinalResponse string `json:"final_response,omitempty"`
	// RequiresConfirmation asks the caller to confirm before executing.
	RequiresConfirmation bool   `json:"requires_confirmation,omitempty"`
	ConfirmationMessage  string `json:"confirmation_message,omitempty"`
}

// ExecutionResult is the outcome of invoking one tool.
type ExecutionResult struct {
	// Tool is the registry name that was invoked.
	Tool string `json:"tool"`
	// Result is the tool's human-readable status or small structured value.
	Result string `json:"result,omitempty"`
	// Success is false when the tool failed or raised internally.
	Success bool `json:"success"`
	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty"`
}

// StepResultKey returns the variable name later steps use to reference the
// output of step n ("step3_result" for n=3).
func StepResultKey(n int) string {
	return fmt.Sprintf("step%d_result", n)
}

// StepToolKey returns the bookkeeping key recording which tool ran at step n.
func StepToolKey(n int) string {
	return fmt.Sprintf("step%d_tool", n)
}
