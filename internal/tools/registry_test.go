package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(nil)
}

func TestRegisterRequiresNameAndRun(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.Register(Tool{Run: func(context.Context, Params) (string, error) { return "", nil }}); err == nil {
		t.Error("expected error for unnamed tool")
	}
	if err := reg.Register(Tool{Name: "broken"}); err == nil {
		t.Error("expected error for tool without run function")
	}
}

func TestInvokeSuccess(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(Tool{
		Name: "echo",
		Run: func(_ context.Context, p Params) (string, error) {
			return p.String("text"), nil
		},
	})

	res := reg.Invoke(context.Background(), "echo", map[string]any{"text": "hello"})
	if !res.Success || res.Result != "hello" {
		t.Errorf("got %+v", res)
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	reg := newTestRegistry(t)
	res := reg.Invoke(context.Background(), "nope", nil)
	if res.Success {
		t.Error("unknown tool should not succeed")
	}
	if !strings.Contains(res.Error, "unknown tool") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestInvokeFoldsError(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(Tool{
		Name: "fails",
		Run: func(context.Context, Params) (string, error) {
			return "", fmt.Errorf("disk on fire")
		},
	})

	res := reg.Invoke(context.Background(), "fails", nil)
	if res.Success {
		t.Error("failing tool should not succeed")
	}
	if res.Error != "disk on fire" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(Tool{
		Name: "panics",
		Run: func(context.Context, Params) (string, error) {
			panic("boom")
		},
	})

	res := reg.Invoke(context.Background(), "panics", nil)
	if res.Success {
		t.Error("panicking tool should not succeed")
	}
	if !strings.Contains(res.Error, "boom") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestNamesAndSignaturesSorted(t *testing.T) {
	reg := newTestRegistry(t)
	noop := func(context.Context, Params) (string, error) { return "", nil }
	reg.Register(Tool{Name: "zeta", Description: "last", Run: noop})
	reg.Register(Tool{Name: "alpha", Description: "first", Params: []Param{{Name: "x", Required: true}, {Name: "y"}}, Run: noop})

	names := reg.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("names = %v", names)
	}

	sigs := reg.Signatures()
	if sigs[0] != "alpha(x, y?) - first" {
		t.Errorf("signature = %q", sigs[0])
	}
}

func TestCategoriesGrouping(t *testing.T) {
	reg := newTestRegistry(t)
	noop := func(context.Context, Params) (string, error) { return "", nil }
	reg.Register(Tool{Name: "a", Category: CategoryFiles, Run: noop})
	reg.Register(Tool{Name: "b", Category: CategoryFiles, Run: noop})
	reg.Register(Tool{Name: "c", Run: noop})

	cats := reg.Categories()
	if got := cats[CategoryFiles]; len(got) != 2 || got[0] != "a" {
		t.Errorf("files = %v", got)
	}
	if got := cats["General"]; len(got) != 1 || got[0] != "c" {
		t.Errorf("general = %v", got)
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(Tool{Name: "tool", Run: func(context.Context, Params) (string, error) { return "v1", nil }})
	reg.Register(Tool{Name: "tool", Run: func(context.Context, Params) (string, error) { return "v2", nil }})

	res := reg.Invoke(context.Background(), "tool", nil)
	if res.Result != "v2" {
		t.Errorf("result = %q", res.Result)
	}
	if reg.Len() != 1 {
		t.Errorf("len = %d", reg.Len())
	}
}
