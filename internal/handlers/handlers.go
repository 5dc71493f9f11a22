// Package handlers maps planner intents to tool invocations, one handler
// per screen context. Handlers are deterministic: the planner names an
// intent and target, the handler for the current context decides which tool
// that means. Vision is requested explicitly via Result.NeedsVision, never
// implied.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/glowdesk/glow/internal/tools"
	"github.com/glowdesk/glow/pkg/models"
)

// Result is the outcome of one handler execution.
type Result struct {
	Success bool
	// NeedsVision asks the orchestrator to retry the action through the
	// vision path. Only set deliberately.
	NeedsVision bool
	// Method names the tool that performed the action.
	Method string
	// Output is the tool's result text.
	Output string
	Err    error
}

// Handler executes intents within one screen context.
type Handler interface {
	// CanHandle reports whether this handler knows the intent.
	CanHandle(intent string) bool
	// Execute performs the intent against the target.
	Execute(ctx context.Context, intent, target string) Result
}

// ForContext returns the handler for a screen context, or nil when no
// deterministic handler applies.
func ForContext(sctx models.ContextType, reg *tools.Registry) Handler {
	switch sctx {
	case models.ContextDesktop:
		return &DesktopHandler{reg: reg}
	case models.ContextBrowser, models.ContextWebsite:
		return &BrowserHandler{reg: reg}
	case models.ContextApplication:
		return &AppHandler{reg: reg}
	default:
		return nil
	}
}

// intentHas reports whether the intent contains any of the given words.
func intentHas(intent string, words ...string) bool {
	lower := strings.ToLower(intent)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// invoke runs a tool and folds its ExecutionResult into a handler Result.
func invoke(ctx context.Context, reg *tools.Registry, tool string, params map[string]any) Result {
	res := reg.Invoke(ctx, tool, params)
	if !res.Success {
		return Result{Method: tool, Err: fmt.Errorf("%s", res.Error)}
	}
	return Result{Success: true, Method: tool, Output: res.Result}
}

// DesktopHandler acts when nothing relevant is focused: it opens things.
type DesktopHandler struct {
	reg *tools.Registry
}

func (h *DesktopHandler) CanHandle(intent string) bool {
	return intentHas(intent, "open", "launch", "start", "search", "navigate", "go")
}

func (h *DesktopHandler) Execute(ctx context.Context, intent, target string) Result {
	switch {
	case intentHas(intent, "open", "launch", "start"):
		if looksLikeWebsite(target) {
			return invoke(ctx, h.reg, "open_website", map[string]any{"url": target})
		}
		return invoke(ctx, h.reg, "launch_application", map[string]any{"app_name": target})
	case intentHas(intent, "search"):
		return invoke(ctx, h.reg, "search_google", map[string]any{"query": target})
	case intentHas(intent, "navigate", "go"):
		return invoke(ctx, h.reg, "open_website", map[string]any{"url": target})
	default:
		return Result{Err: fmt.Errorf("desktop handler cannot perform %q", intent)}
	}
}

// BrowserHandler acts inside a browser window.
type BrowserHandler struct {
	reg *tools.Registry
}

func (h *BrowserHandler) CanHandle(intent string) bool {
	return intentHas(intent, "search", "navigate", "go", "open", "type", "click")
}

func (h *BrowserHandler) Execute(ctx context.Context, intent, target string) Result {
	switch {
	case intentHas(intent, "search"):
		return invoke(ctx, h.reg, "search_google", map[string]any{"query": target})
	case intentHas(intent, "navigate", "go", "open"):
		if looksLikeWebsite(target) {
			return invoke(ctx, h.reg, "open_website", map[string]any{"url": target})
		}
		return invoke(ctx, h.reg, "search_google", map[string]any{"query": target})
	case intentHas(intent, "type"):
		return invoke(ctx, h.reg, "type_text", map[string]any{"text": target})
	case intentHas(intent, "click"):
		// Clicking page elements needs screen understanding.
		return Result{NeedsVision: true, Err: fmt.Errorf("clicking %q needs visual assistance", target)}
	default:
		return Result{Err: fmt.Errorf("browser handler cannot perform %q", intent)}
	}
}

// AppHandler acts inside a focused desktop application.
type AppHandler struct {
	reg *tools.Registry
}

func (h *AppHandler) CanHandle(intent string) bool {
	return intentHas(intent, "type", "write", "save", "close", "open", "launch", "start", "click")
}

func (h *AppHandler) Execute(ctx context.Context, intent, target string) Result {
	switch {
	case intentHas(intent, "type", "write"):
		return invoke(ctx, h.reg, "type_text", map[string]any{"text": target})
	case intentHas(intent, "save"):
		return invoke(ctx, h.reg, "press_key", map[string]any{"key": "ctrl+s"})
	case intentHas(intent, "close"):
		return invoke(ctx, h.reg, "press_key", map[string]any{"key": "ctrl+w"})
	case intentHas(intent, "open", "launch", "start"):
		return invoke(ctx, h.reg, "launch_application", map[string]any{"app_name": target})
	case intentHas(intent, "click"):
		return Result{NeedsVision: true, Err: fmt.Errorf("clicking %q needs visual assistance", target)}
	default:
		return Result{Err: fmt.Errorf("app handler cannot perform %q", intent)}
	}
}

// looksLikeWebsite reports whether the target names a site rather than an
// application.
func looksLikeWebsite(target string) bool {
	lower := strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "www.") ||
		strings.Contains(lower, ".com") ||
		strings.Contains(lower, ".org") ||
		strings.Contains(lower, ".net") ||
		strings.Contains(lower, ".io")
}
