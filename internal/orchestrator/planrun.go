package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/glowdesk/glow/internal/binder"
	"github.com/glowdesk/glow/internal/planner"
	"github.com/glowdesk/glow/internal/tools"
	"github.com/glowdesk/glow/internal/verifier"
	"github.com/glowdesk/glow/pkg/models"
)

// RunPlan executes a goal in plan mode: one upfront multi-step plan,
// deterministic execution with step-output chaining, then verification.
// Like Run, it always returns a user-facing message.
func (o *Orchestrator) RunPlan(ctx context.Context, goal string) string {
	runID := uuid.NewString()[:8]
	o.logger.Infow("plan requested", "run", runID, "goal", goal)

	if o.opts.Stop != nil {
		o.opts.Stop.Clear()
	}

	obs := o.opts.Observer.Observe(ctx)

	resp, err := o.opts.Planner.CreatePlan(ctx, planner.PlanRequest{
		Goal:           goal,
		ToolSignatures: o.opts.Registry.Signatures(),
		Memory:         o.memoryContext(),
		ActiveWindow:   obs.WindowTitle,
	})
	if err != nil {
		o.logger.Errorw("plan creation failed", "error", err)
		return fmt.Sprintf("I couldn't plan that right now: %v", err)
	}
	if resp.Plan == nil {
		return resp.Conversation
	}
	plan := resp.Plan
	o.logger.Infow("plan created", "steps", len(plan.Steps), "analysis", plan.Analysis)

	if plan.RequiresConfirmation && o.opts.Confirm != nil {
		msg := plan.ConfirmationMessage
		if msg == "" {
			msg = plan.Analysis
		}
		if !o.opts.Confirm(msg) {
			return "Okay, I won't do that."
		}
	}

	priorResults := make(map[string]string)
	var results []models.ExecutionResult

	for _, step := range plan.Steps {
		if o.aborted(ctx) {
			return abortedMessage
		}

		if o.blocked(step.Tool, step.Description) {
			results = append(results, models.ExecutionResult{
				Tool: step.Tool, Error: "blocked by safety policy",
			})
			continue
		}

		if step.Tool == models.ToolCreateSentinel {
			res := o.createTool(ctx, step)
			results = append(results, res)
			recordStep(priorResults, step.Index, step.Tool, res)
			continue
		}

		params := binder.Bind(step.Parameters, priorResults)

		if tool, ok := o.opts.Registry.Get(step.Tool); ok && tool.NeedsVision {
			ok := o.visionStep(ctx, goal, step.Tool, step.Description, nil)
			res := models.ExecutionResult{Tool: step.Tool, Success: ok}
			if ok {
				res.Result = "completed with visual assistance"
			} else {
				res.Error = "visual assistance unavailable"
			}
			results = append(results, res)
			recordStep(priorResults, step.Index, step.Tool, res)
			continue
		}

		res := o.opts.Registry.Invoke(ctx, step.Tool, params)
		o.logger.Infow("plan step", "n", step.Index, "tool", step.Tool, "success", res.Success)
		results = append(results, res)
		recordStep(priorResults, step.Index, step.Tool, res)

		if res.Success && needsSettle(step.Tool) {
			o.settle(ctx)
		}
	}

	o.logger.Debugw("plan executed", "results", verifier.Summary(results))

	report := o.verify.Check(ctx, goal, results, expectedOutcomes(plan))
	if report.UserMessage != "" {
		return report.UserMessage
	}
	if plan.FinalResponse != "" {
		return plan.FinalResponse
	}
	return "Done."
}

// createTool handles a plan step that asks for a capability the registry
// lacks. The planner returns a declarative spec; it is validated, gated on
// the dynamic-tools setting, registered, and persisted.
// memoryContext assembles the planner's memory block: recent conversation
// turns followed by long-term facts. Either source may be absent.
func (o *Orchestrator) memoryContext() string {
	var parts []string

	if o.opts.Conversation != nil {
		if recent := o.opts.Conversation.RecentContext(3); recent != "" {
			parts = append(parts, recent)
		}
	}

	if o.opts.Facts != nil {
		facts, err := o.opts.Facts.AllFacts()
		if err != nil {
			o.logger.Warnw("loading facts", "error", err)
		} else if len(facts) > 0 {
			keys := make([]string, 0, len(facts))
			for k := range facts {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			var b strings.Builder
			b.WriteString("Known facts about the user:")
			for _, k := range keys {
				fmt.Fprintf(&b, "\n- %s: %s", k, facts[k])
			}
			parts = append(parts, b.String())
		}
	}

	return strings.Join(parts, "\n\n")
}

func (o *Orchestrator) createTool(ctx context.Context, step models.PlanStep) models.ExecutionResult {
	res := models.ExecutionResult{Tool: models.ToolCreateSentinel}

	if !o.opts.AllowDynamic {
		res.Error = "dynamic tool creation is disabled"
		return res
	}

	p := tools.Params(step.Parameters)
	description := p.String("tool_description", "description")
	suggested := p.String("suggested_name", "name")
	if description == "" {
		res.Error = "no tool description in plan step"
		return res
	}

	raw, err := o.opts.Planner.DefineTool(ctx, description, suggested)
	if err != nil {
		res.Error = fmt.Sprintf("tool definition failed: %v", err)
		return res
	}

	spec, err := tools.ParseSpec(raw)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := spec.Validate(o.opts.DynamicDeps.ShellAllowList); err != nil {
		res.Error = fmt.Sprintf("rejected tool spec: %v", err)
		return res
	}

	if err := o.opts.Registry.Register(spec.Build(o.opts.DynamicDeps)); err != nil {
		res.Error = err.Error()
		return res
	}
	if o.opts.SpecDir != "" {
		if err := tools.SaveSpec(o.opts.SpecDir, spec); err != nil {
			o.logger.Warnw("could not persist tool spec", "tool", spec.Name, "error", err)
		}
	}

	o.logger.Infow("registered dynamic tool", "tool", spec.Name)
	res.Success = true
	res.Result = fmt.Sprintf("Created tool %s", spec.Name)
	return res
}

// recordStep threads a step's output into the binding context for later
// steps.
func recordStep(prior map[string]string, index int, tool string, res models.ExecutionResult) {
	out := res.Result
	if !res.Success {
		out = "ERROR: " + res.Error
	}
	prior[models.StepResultKey(index)] = out
	prior[models.StepToolKey(index)] = tool
}

// needsSettle reports whether a tool changes the screen and deserves a
// stabilization wait. Pure queries do not.
func needsSettle(tool string) bool {
	for _, prefix := range []string{"get_", "read_", "list_", "recall_"} {
		if strings.HasPrefix(tool, prefix) {
			return false
		}
	}
	return true
}

// expectedOutcomes joins the plan's per-step expectations for the verifier.
func expectedOutcomes(plan *models.Plan) string {
	var parts []string
	for _, s := range plan.Steps {
		if s.ExpectedOutcome != "" {
			parts = append(parts, fmt.Sprintf("step %d: %s", s.Index, s.ExpectedOutcome))
		}
	}
	return strings.Join(parts, "; ")
}
