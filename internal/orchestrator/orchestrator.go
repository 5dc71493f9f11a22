// Package orchestrator implements the re-planning loop that turns a natural
// language goal into desktop actions: observe the screen, ask the planner
// for the next intent, route it through a context handler, fall back to
// keyword tool mapping, wait for the screen to settle, repeat. The loop is
// bounded, deny-listed, duplicate-guarded, and cooperatively abortable.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glowdesk/glow/internal/handlers"
	"github.com/glowdesk/glow/internal/memory"
	"github.com/glowdesk/glow/internal/observer"
	"github.com/glowdesk/glow/internal/orchestrator/policy"
	"github.com/glowdesk/glow/internal/planner"
	"github.com/glowdesk/glow/internal/tools"
	"github.com/glowdesk/glow/internal/verifier"
	"github.com/glowdesk/glow/pkg/models"
)

const abortedMessage = "Action aborted by user."

// FactSource supplies long-term user facts for plan context. The production
// implementation is the sqlite memory store.
type FactSource interface {
	AllFacts() (map[string]string, error)
}

// Options configures an Orchestrator. Planner, Registry and Observer are
// required; everything else degrades gracefully when absent.
type Options struct {
	Planner  planner.Planner
	Registry *tools.Registry
	Observer *observer.Observer

	// Vision enables the screenshot-guided fallback path.
	Vision planner.VisionPlanner
	// Grabber captures screenshots for vision and settle waits.
	Grabber observer.ScreenGrabber
	// Stop is the emergency-stop watcher.
	Stop *StopWatcher
	// Policy holds loop bounds and guard tables; nil means defaults.
	Policy *policy.Config
	// Verifier judges plan-mode runs; nil builds one over Planner.
	Verifier *verifier.Verifier
	// Conversation supplies dialogue context to plan mode.
	Conversation *memory.Conversation
	// Facts supplies long-term user facts to plan mode.
	Facts FactSource
	// Confirm is consulted when a plan requires confirmation; nil means
	// proceed.
	Confirm func(message string) bool

	// AllowDynamic enables planner-defined declarative tools.
	AllowDynamic bool
	// SpecDir is where dynamic tool specs persist across runs.
	SpecDir string
	// DynamicDeps are the primitives dynamic tools execute against.
	DynamicDeps tools.DynamicDeps

	Logger *zap.SugaredLogger
}

// Orchestrator drives one goal at a time to completion.
type Orchestrator struct {
	opts   Options
	policy *policy.Config
	verify *verifier.Verifier
	logger *zap.SugaredLogger
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	pol := opts.Policy
	if pol == nil {
		pol = policy.Default()
	}
	pol.Validate()

	ver := opts.Verifier
	if ver == nil {
		ver = verifier.New(opts.Planner, opts.Logger)
	}

	return &Orchestrator{
		opts:   opts,
		policy: pol,
		verify: ver,
		logger: opts.Logger,
	}
}

// Run executes the re-planning loop for one goal and returns the final
// user-facing message. It never returns an error: every failure mode folds
// into a message, because a half-broken desktop still deserves an answer.
func (o *Orchestrator) Run(ctx context.Context, goal string) string {
	runID := uuid.NewString()[:8]
	o.logger.Infow("goal accepted", "run", runID, "goal", goal)

	if o.opts.Stop != nil {
		o.opts.Stop.Clear()
	}

	// Normalization is best effort; a parse failure falls back to the raw
	// goal text.
	normalized, err := o.opts.Planner.Normalize(ctx, goal)
	if err != nil {
		o.logger.Debugw("normalization unavailable", "error", err)
		normalized = nil
	} else {
		o.logger.Infow("normalized goal", "goal", normalized.Goal, "steps", len(normalized.Steps))
	}

	var history []string
	lastSucceeded := false
	maxIter := o.policy.Loop.MaxIterations

	for iteration := 1; iteration <= maxIter; iteration++ {
		if o.aborted(ctx) {
			return abortedMessage
		}

		obs := o.opts.Observer.Observe(ctx)
		o.logger.Infow("iteration", "n", iteration, "context", obs.Context, "window", obs.WindowTitle)

		decision, err := o.opts.Planner.NextAction(ctx, planner.NextActionRequest{
			Goal:        goal,
			Context:     obs.Context,
			WindowTitle: obs.WindowTitle,
			Normalized:  normalized,
			History:     tail(history, o.policy.Loop.HistoryWindow),
		})
		if err != nil {
			o.logger.Warnw("intent query failed", "error", err)
			continue
		}

		if decision.GoalAchieved {
			if decision.Message != "" {
				return decision.Message
			}
			return "Task completed successfully."
		}

		intent, target := decision.Intent, decision.Target
		o.logger.Infow("intent", "intent", intent, "target", target)

		// Safety comes before every short-circuit: a deny-listed target
		// that already happens to be on screen is still refused.
		if o.blocked(intent, target) {
			return fmt.Sprintf("I can't safely do that (%q). Let me help in another way.", intent)
		}

		if alreadyAchieved(obs.Context, intent, target, obs.WindowTitle) {
			return fmt.Sprintf("Done! %s is already open.", target)
		}

		sig := decision.Signature(obs.Context)
		if lastSucceeded && contains(tail(history, o.policy.Guard.Window), sig) {
			return fmt.Sprintf("Done! I already completed %q on %q.", intent, target)
		}
		history = append(history, sig)

		if h := handlers.ForContext(obs.Context, o.opts.Registry); h != nil && h.CanHandle(intent) {
			res := h.Execute(ctx, intent, target)
			switch {
			case res.Success:
				o.logger.Infow("handler succeeded", "method", res.Method)
				lastSucceeded = true
				o.settle(ctx)
				continue
			case res.NeedsVision:
				lastSucceeded = o.visionStep(ctx, goal, intent, target, history)
				o.settle(ctx)
				continue
			default:
				o.logger.Warnw("handler failed", "method", res.Method, "error", res.Err)
			}
		}

		lastSucceeded = o.fallbackStep(ctx, intent, target)
		o.settle(ctx)
	}

	return fmt.Sprintf("Reached maximum iterations (%d). Task may be partially complete.", maxIter)
}

// aborted checks the cooperative stop conditions.
func (o *Orchestrator) aborted(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return o.opts.Stop != nil && o.opts.Stop.ShouldStop()
}

// blocked applies the safety deny list to the combined intent and target.
func (o *Orchestrator) blocked(intent, target string) bool {
	check := strings.ToLower(intent + " " + target)
	for _, deny := range o.policy.Safety.DenyList {
		if strings.Contains(check, deny) {
			return true
		}
	}
	return false
}

// alreadyAchieved detects goals that the current screen already satisfies,
// preventing loops like re-opening an editor that is focused.
func alreadyAchieved(sctx models.ContextType, intent, target, windowTitle string) bool {
	if target == "" {
		return false
	}
	intentLower := strings.ToLower(intent)
	targetLower := strings.ToLower(target)
	windowLower := strings.ToLower(windowTitle)

	if strings.Contains(intentLower, "open") || strings.Contains(intentLower, "launch") || strings.Contains(intentLower, "start") {
		if sctx == models.ContextApplication && strings.Contains(windowLower, targetLower) {
			return true
		}
	}
	if strings.Contains(intentLower, "navigate") || strings.Contains(intentLower, "go") {
		if strings.Contains(windowLower, targetLower) {
			return true
		}
	}
	if sctx == models.ContextWebsite && strings.Contains(windowLower, targetLower) {
		return true
	}
	return false
}

// fallbackStep maps the intent onto a tool via the policy keyword table.
// Click intents have no deterministic fallback.
func (o *Orchestrator) fallbackStep(ctx context.Context, intent, target string) bool {
	intentLower := strings.ToLower(intent)

	for _, rule := range o.policy.Fallback.Rules {
		matched := false
		for _, kw := range rule.Keywords {
			if strings.Contains(intentLower, kw) {
				matched = true
				break
			}
		}
		if !matched || !o.opts.Registry.Has(rule.Tool) {
			continue
		}
		res := o.opts.Registry.Invoke(ctx, rule.Tool, map[string]any{rule.ParamKey: target})
		if res.Success {
			o.logger.Infow("fallback succeeded", "tool", rule.Tool)
			return true
		}
		o.logger.Warnw("fallback failed", "tool", rule.Tool, "error", res.Error)
		return false
	}

	if strings.Contains(intentLower, "click") {
		o.logger.Warnw("no deterministic fallback for click", "target", target)
		return false
	}
	o.logger.Warnw("no fallback rule for intent", "intent", intent)
	return false
}

// visionStep consults the vision planner for one screenshot-guided action.
// Without a vision planner or grabber it degrades to the keyword fallback.
func (o *Orchestrator) visionStep(ctx context.Context, goal, intent, target string, history []string) bool {
	if o.opts.Vision == nil || o.opts.Grabber == nil {
		return o.fallbackStep(ctx, intent, target)
	}

	shot, err := o.opts.Grabber.Grab(ctx)
	if err != nil {
		o.logger.Warnw("screenshot failed", "error", err)
		return o.fallbackStep(ctx, intent, target)
	}

	decision, err := o.opts.Vision.AnalyzeScreen(ctx, goal, shot, tail(history, o.policy.Loop.HistoryWindow))
	if err != nil {
		o.logger.Warnw("vision analysis failed", "error", err)
		return false
	}
	if decision.GoalAchieved || decision.NextAction == nil {
		return true
	}

	res := o.opts.Registry.Invoke(ctx, decision.NextAction.Tool, decision.NextAction.Parameters)
	if !res.Success {
		o.logger.Warnw("vision action failed", "tool", decision.NextAction.Tool, "error", res.Error)
	}
	return res.Success
}

// settle waits for the screen to react to the last action.
func (o *Orchestrator) settle(ctx context.Context) {
	observer.WaitForChange(ctx, o.opts.Grabber, o.policy.Loop.SettleTimeout)
}

func tail(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
