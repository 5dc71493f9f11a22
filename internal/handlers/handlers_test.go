package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/glowdesk/glow/internal/tools"
	"github.com/glowdesk/glow/pkg/models"
)

// recordingRegistry builds a registry whose tools record their invocations.
func recordingRegistry(t *testing.T, failing map[string]bool) (*tools.Registry, *[]string) {
	t.Helper()
	var calls []string
	reg := tools.NewRegistry(nil)
	for _, name := range []string{
		"launch_application", "open_website", "search_google", "type_text", "press_key",
	} {
		name := name
		reg.Register(tools.Tool{
			Name: name,
			Run: func(_ context.Context, p tools.Params) (string, error) {
				calls = append(calls, name+":"+p.String("app_name", "url", "query", "text", "key"))
				if failing[name] {
					return "", fmt.Errorf("%s broke", name)
				}
				return "ok", nil
			},
		})
	}
	return reg, &calls
}

func TestForContext(t *testing.T) {
	reg, _ := recordingRegistry(t, nil)
	cases := []struct {
		sctx models.ContextType
		want string
	}{
		{models.ContextDesktop, "*handlers.DesktopHandler"},
		{models.ContextBrowser, "*handlers.BrowserHandler"},
		{models.ContextWebsite, "*handlers.BrowserHandler"},
		{models.ContextApplication, "*handlers.AppHandler"},
	}
	for _, c := range cases {
		h := ForContext(c.sctx, reg)
		if got := fmt.Sprintf("%T", h); got != c.want {
			t.Errorf("ForContext(%s) = %s, want %s", c.sctx, got, c.want)
		}
	}
	if h := ForContext(models.ContextUnknown, reg); h != nil {
		t.Errorf("unknown context should have no handler, got %T", h)
	}
}

func TestDesktopHandlerRouting(t *testing.T) {
	reg, calls := recordingRegistry(t, nil)
	h := &DesktopHandler{reg: reg}

	if !h.CanHandle("open_app") || h.CanHandle("frobnicate") {
		t.Error("CanHandle routing wrong")
	}

	res := h.Execute(context.Background(), "open_app", "notepad")
	if !res.Success || res.Method != "launch_application" {
		t.Errorf("got %+v", res)
	}

	res = h.Execute(context.Background(), "open", "amazon.com")
	if res.Method != "open_website" {
		t.Errorf("website target should open browser, got %+v", res)
	}

	h.Execute(context.Background(), "search", "cat videos")
	h.Execute(context.Background(), "navigate", "github.com")

	want := []string{
		"launch_application:notepad",
		"open_website:amazon.com",
		"search_google:cat videos",
		"open_website:github.com",
	}
	if len(*calls) != len(want) {
		t.Fatalf("calls = %v", *calls)
	}
	for i, w := range want {
		if (*calls)[i] != w {
			t.Errorf("call %d = %q, want %q", i, (*calls)[i], w)
		}
	}
}

func TestBrowserHandlerClickNeedsVision(t *testing.T) {
	reg, calls := recordingRegistry(t, nil)
	h := &BrowserHandler{reg: reg}

	res := h.Execute(context.Background(), "click", "first result")
	if res.Success {
		t.Error("click should not succeed deterministically")
	}
	if !res.NeedsVision {
		t.Error("click should request vision")
	}
	if len(*calls) != 0 {
		t.Errorf("click invoked tools: %v", *calls)
	}
}

func TestBrowserHandlerNavigatePlainTextSearches(t *testing.T) {
	reg, calls := recordingRegistry(t, nil)
	h := &BrowserHandler{reg: reg}

	res := h.Execute(context.Background(), "go", "best pizza near me")
	if !res.Success || res.Method != "search_google" {
		t.Errorf("got %+v", res)
	}
	if (*calls)[0] != "search_google:best pizza near me" {
		t.Errorf("calls = %v", *calls)
	}
}

func TestAppHandlerSaveAndType(t *testing.T) {
	reg, calls := recordingRegistry(t, nil)
	h := &AppHandler{reg: reg}

	res := h.Execute(context.Background(), "type", "hello world")
	if !res.Success || res.Method != "type_text" {
		t.Errorf("got %+v", res)
	}

	res = h.Execute(context.Background(), "save", "")
	if !res.Success || res.Method != "press_key" {
		t.Errorf("got %+v", res)
	}

	want := []string{"type_text:hello world", "press_key:ctrl+s"}
	for i, w := range want {
		if (*calls)[i] != w {
			t.Errorf("call %d = %q, want %q", i, (*calls)[i], w)
		}
	}
}

func TestHandlerSurfacesToolError(t *testing.T) {
	reg, _ := recordingRegistry(t, map[string]bool{"launch_application": true})
	h := &DesktopHandler{reg: reg}

	res := h.Execute(context.Background(), "open", "notepad")
	if res.Success {
		t.Error("failing tool should fail the handler")
	}
	if res.NeedsVision {
		t.Error("plain tool failure should not request vision")
	}
	if res.Err == nil {
		t.Error("error not surfaced")
	}
}
