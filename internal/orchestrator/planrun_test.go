package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"github.com/glowdesk/glow/internal/memory"
	"github.com/glowdesk/glow/internal/observer"
	"github.com/glowdesk/glow/internal/planner"
	"github.com/glowdesk/glow/internal/tools"
	"github.com/glowdesk/glow/pkg/models"
)

func TestRunPlanConversationPassthrough(t *testing.T) {
	reg, calls := testRegistry(nil)
	p := &scriptedPlanner{planResp: &planner.PlanResponse{
		Conversation: "I'm doing great, thanks for asking!",
	}}
	o := newTestOrchestrator(p, reg, "", nil)

	got := o.RunPlan(context.Background(), "how are you?")
	if got != "I'm doing great, thanks for asking!" {
		t.Errorf("got %q", got)
	}
	if len(*calls) != 0 {
		t.Errorf("conversation invoked tools: %v", *calls)
	}
}

func TestRunPlanExecutesStepsAndChainsOutputs(t *testing.T) {
	var captured string
	reg := tools.NewRegistry(nil)
	reg.Register(tools.Tool{
		Name: "get_desktop_path",
		Run: func(context.Context, tools.Params) (string, error) {
			return "/home/u/Desktop", nil
		},
	})
	reg.Register(tools.Tool{
		Name: "create_folder",
		Run: func(_ context.Context, p tools.Params) (string, error) {
			captured = p.String("path")
			return "created", nil
		},
	})

	p := &scriptedPlanner{planResp: &planner.PlanResponse{Plan: &models.Plan{
		Steps: []models.PlanStep{
			{Index: 1, Tool: "get_desktop_path"},
			{Index: 2, Tool: "create_folder", Parameters: map[string]any{
				"path": "$step1_result/Projects",
			}},
		},
		FinalResponse: "Folder ready.",
	}}}
	o := newTestOrchestrator(p, reg, "", nil)

	got := o.RunPlan(context.Background(), "make a Projects folder on my desktop")
	if got != "Verified." {
		t.Errorf("got %q", got)
	}
	if captured != "/home/u/Desktop/Projects" {
		t.Errorf("bound path = %q", captured)
	}
}

func TestRunPlanVerifierFallbackWhenUnreachable(t *testing.T) {
	reg, _ := testRegistry(nil)
	p := &scriptedPlanner{
		verifyErr: true,
		planResp: &planner.PlanResponse{Plan: &models.Plan{
			Steps:         []models.PlanStep{{Index: 1, Tool: "search_google", Parameters: map[string]any{"query": "cats"}}},
			FinalResponse: "Searched!",
		}},
	}
	o := newTestOrchestrator(p, reg, "", nil)

	got := o.RunPlan(context.Background(), "search cats")
	if !strings.Contains(got, "Done! All steps completed.") {
		t.Errorf("got %q", got)
	}
}

func TestRunPlanUnknownToolRecordedAsFailure(t *testing.T) {
	reg, _ := testRegistry(nil)
	p := &scriptedPlanner{
		verifyErr: true,
		planResp: &planner.PlanResponse{Plan: &models.Plan{
			Steps: []models.PlanStep{{Index: 1, Tool: "teleport_user"}},
		}},
	}
	o := newTestOrchestrator(p, reg, "", nil)

	got := o.RunPlan(context.Background(), "teleport me")
	if !strings.Contains(got, "couldn't complete") {
		t.Errorf("got %q", got)
	}
}

func TestRunPlanDynamicToolDisabled(t *testing.T) {
	reg, _ := testRegistry(nil)
	p := &scriptedPlanner{
		verifyErr: true,
		planResp: &planner.PlanResponse{Plan: &models.Plan{
			Steps: []models.PlanStep{{
				Index: 1,
				Tool:  models.ToolCreateSentinel,
				Parameters: map[string]any{
					"tool_description": "a tool that opens the calculator",
					"suggested_name":   "open_calculator",
				},
			}},
		}},
	}
	o := newTestOrchestrator(p, reg, "", nil)

	got := o.RunPlan(context.Background(), "make me a calculator tool")
	if !strings.Contains(got, "disabled") {
		t.Errorf("got %q", got)
	}
	if reg.Has("open_calculator") {
		t.Error("tool registered despite dynamic creation being disabled")
	}
}

func TestRunPlanDynamicToolCreatedAndUsed(t *testing.T) {
	reg, _ := testRegistry(nil)
	spec := `{"name": "open_calculator", "description": "opens the calculator",
		"steps": [{"op": "launch", "args": {"app": "gnome-calculator"}}]}`
	p := &scriptedPlanner{
		toolSpec: json.RawMessage(spec),
		planResp: &planner.PlanResponse{Plan: &models.Plan{
			Steps: []models.PlanStep{
				{Index: 1, Tool: models.ToolCreateSentinel, Parameters: map[string]any{
					"tool_description": "a tool that opens the calculator",
					"suggested_name":   "open_calculator",
				}},
				{Index: 2, Tool: "open_calculator"},
			},
		}},
	}

	launcher := &launchRecorder{}
	o := New(Options{
		Planner:      p,
		Registry:     reg,
		Observer:     observer.New(staticTitler{}, nil),
		Policy:       fastPolicy(),
		AllowDynamic: true,
		DynamicDeps:  tools.DynamicDeps{Launcher: launcher},
	})

	got := o.RunPlan(context.Background(), "open the calculator")
	if got != "Verified." {
		t.Errorf("got %q", got)
	}
	if !reg.Has("open_calculator") {
		t.Fatal("dynamic tool not registered")
	}
	if len(launcher.apps) != 1 || launcher.apps[0] != "gnome-calculator" {
		t.Errorf("launched = %v", launcher.apps)
	}
}

type launchRecorder struct{ apps []string }

func (l *launchRecorder) Launch(_ context.Context, app string) (string, error) {
	l.apps = append(l.apps, app)
	return app, nil
}
func (l *launchRecorder) Kill(context.Context, string) (int, error) { return 0, nil }
func (l *launchRecorder) Open(context.Context, string) error        { return nil }

func TestRunPlanConfirmationDeclined(t *testing.T) {
	reg, calls := testRegistry(nil)
	p := &scriptedPlanner{planResp: &planner.PlanResponse{Plan: &models.Plan{
		RequiresConfirmation: true,
		ConfirmationMessage:  "This will delete files. Proceed?",
		Steps:                []models.PlanStep{{Index: 1, Tool: "search_google"}},
	}}}
	o := New(Options{
		Planner:  p,
		Registry: reg,
		Observer: observer.New(staticTitler{}, nil),
		Policy:   fastPolicy(),
		Confirm:  func(string) bool { return false },
	})

	got := o.RunPlan(context.Background(), "something destructive")
	if !strings.Contains(got, "won't") {
		t.Errorf("got %q", got)
	}
	if len(*calls) != 0 {
		t.Errorf("declined plan invoked tools: %v", *calls)
	}
}

func TestRunPlanLogsResultsSummary(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)

	reg := tools.NewRegistry(nil)
	reg.Register(tools.Tool{
		Name: "get_desktop_path",
		Run: func(context.Context, tools.Params) (string, error) {
			return "/home/u/Desktop", nil
		},
	})

	p := &scriptedPlanner{planResp: &planner.PlanResponse{Plan: &models.Plan{
		Steps: []models.PlanStep{
			{Index: 1, Tool: "get_desktop_path"},
			{Index: 2, Tool: "no_such_tool"},
		},
	}}}
	o := New(Options{
		Planner:  p,
		Registry: reg,
		Observer: observer.New(staticTitler{}, nil),
		Policy:   fastPolicy(),
		Logger:   zap.New(core).Sugar(),
	})

	o.RunPlan(context.Background(), "prepare the desktop")

	entries := logs.FilterMessage("plan executed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(entries))
	}
	summary, _ := entries[0].ContextMap()["results"].(string)
	if !strings.Contains(summary, "get_desktop_path [ok]") {
		t.Errorf("summary missing successful step: %q", summary)
	}
	if !strings.Contains(summary, "no_such_tool [failed]") {
		t.Errorf("summary missing failed step: %q", summary)
	}
}

type staticFacts map[string]string

func (f staticFacts) AllFacts() (map[string]string, error) {
	return f, nil
}

func TestRunPlanMemoryIncludesConversationAndFacts(t *testing.T) {
	reg, _ := testRegistry(nil)
	conv := memory.NewConversation(5)
	conv.AddUser("what's on my desktop?")
	conv.AddAssistant("A Projects folder and two screenshots.")

	p := &scriptedPlanner{planResp: &planner.PlanResponse{Conversation: "ok"}}
	o := New(Options{
		Planner:      p,
		Registry:     reg,
		Observer:     observer.New(staticTitler{}, nil),
		Policy:       fastPolicy(),
		Conversation: conv,
		Facts: staticFacts{
			"favorite_browser": "firefox",
			"desktop_layout":   "tidy",
		},
	})

	o.RunPlan(context.Background(), "open my usual browser")

	mem := p.lastPlanReq.Memory
	if !strings.Contains(mem, "what's on my desktop?") {
		t.Errorf("memory missing conversation context: %q", mem)
	}
	if !strings.Contains(mem, "favorite_browser: firefox") || !strings.Contains(mem, "desktop_layout: tidy") {
		t.Errorf("memory missing facts: %q", mem)
	}
	// Facts render in key order so prompts are stable.
	if strings.Index(mem, "desktop_layout") > strings.Index(mem, "favorite_browser") {
		t.Errorf("facts not sorted: %q", mem)
	}
}
