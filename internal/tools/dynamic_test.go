package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeLauncher records launch calls.
type fakeLauncher struct {
	launched []string
	killed   []string
}

func (f *fakeLauncher) Launch(_ context.Context, app string) (string, error) {
	f.launched = append(f.launched, app)
	return app, nil
}

func (f *fakeLauncher) Kill(_ context.Context, process string) (int, error) {
	f.killed = append(f.killed, process)
	return 1, nil
}

func (f *fakeLauncher) Open(_ context.Context, target string) error { return nil }

const calcSpec = `
name: open_calculator
description: Opens the system calculator
params:
  - name: app
    required: true
    aliases: [application]
steps:
  - op: launch
    args:
      app: "{app}"
`

func TestParseAndValidateSpec(t *testing.T) {
	spec, err := ParseSpec([]byte(calcSpec))
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if spec.Name != "open_calculator" || len(spec.Steps) != 1 {
		t.Fatalf("spec = %+v", spec)
	}
	if err := spec.Validate(nil); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseSpecAcceptsJSON(t *testing.T) {
	data := `{"name": "notify", "description": "send a notification", "steps": [{"op": "shell", "args": {"command": "notify-send hi"}}]}`
	spec, err := ParseSpec([]byte(data))
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	if err := spec.Validate([]string{"notify-send"}); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsBadSpecs(t *testing.T) {
	cases := []struct {
		name string
		spec ToolSpec
	}{
		{"bad name", ToolSpec{Name: "Open Calc!", Description: "x", Steps: []SpecStep{{Op: OpLaunch}}}},
		{"no description", ToolSpec{Name: "ok_name", Steps: []SpecStep{{Op: OpLaunch}}}},
		{"no steps", ToolSpec{Name: "ok_name", Description: "x"}},
		{"unknown op", ToolSpec{Name: "ok_name", Description: "x", Steps: []SpecStep{{Op: "exec_code"}}}},
		{"shell not allowed", ToolSpec{Name: "ok_name", Description: "x",
			Steps: []SpecStep{{Op: OpShell, Args: map[string]string{"command": "rm -rf /"}}}}},
		{"placeholder executable", ToolSpec{Name: "ok_name", Description: "x",
			Steps: []SpecStep{{Op: OpShell, Args: map[string]string{"command": "{cmd} now"}}}}},
		{"unknown param ref", ToolSpec{Name: "ok_name", Description: "x",
			Steps: []SpecStep{{Op: OpLaunch, Args: map[string]string{"app": "{mystery}"}}}}},
	}
	for _, c := range cases {
		if err := c.spec.Validate([]string{"notify-send"}); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestDynamicToolRunsSteps(t *testing.T) {
	spec, err := ParseSpec([]byte(calcSpec))
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	launcher := &fakeLauncher{}
	tool := spec.Build(DynamicDeps{Launcher: launcher})

	out, err := tool.Run(context.Background(), Params{"application": "gnome-calculator"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, "gnome-calculator") {
		t.Errorf("out = %q", out)
	}
	if len(launcher.launched) != 1 || launcher.launched[0] != "gnome-calculator" {
		t.Errorf("launched = %v", launcher.launched)
	}
}

func TestDynamicToolMissingRequiredParam(t *testing.T) {
	spec, _ := ParseSpec([]byte(calcSpec))
	tool := spec.Build(DynamicDeps{Launcher: &fakeLauncher{}})

	if _, err := tool.Run(context.Background(), Params{}); err == nil {
		t.Error("expected error for missing required parameter")
	}
}

func TestDynamicShellRuntimeAllowList(t *testing.T) {
	spec := &ToolSpec{
		Name:        "notify",
		Description: "send a notification",
		Steps:       []SpecStep{{Op: OpShell, Args: map[string]string{"command": "notify-send hello"}}},
	}
	if err := spec.Validate([]string{"notify-send"}); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	var ran string
	tool := spec.Build(DynamicDeps{
		ShellAllowList: []string{"notify-send"},
		RunShell: func(_ context.Context, command string) (string, error) {
			ran = command
			return "sent", nil
		},
	})
	if _, err := tool.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ran != "notify-send hello" {
		t.Errorf("ran %q", ran)
	}

	// Narrowed allow list blocks at run time even though the spec was
	// registered earlier.
	blocked := spec.Build(DynamicDeps{ShellAllowList: nil, RunShell: func(context.Context, string) (string, error) {
		t.Fatal("shell ran despite empty allow list")
		return "", nil
	}})
	if _, err := blocked.Run(context.Background(), nil); err == nil {
		t.Error("expected allow-list error")
	}
}

func TestSandboxPathRejectsEscape(t *testing.T) {
	root := t.TempDir()
	if _, err := sandboxPath("../outside.txt", root); err == nil {
		t.Error("expected sandbox escape error")
	}
	got, err := sandboxPath("notes/today.txt", root)
	if err != nil {
		t.Fatalf("sandboxPath: %v", err)
	}
	if !strings.HasPrefix(got, root) {
		t.Errorf("got %q", got)
	}
}

func TestWriteFileStepStaysInSandbox(t *testing.T) {
	root := t.TempDir()
	spec := &ToolSpec{
		Name:        "save_note",
		Description: "save a note",
		Params:      []SpecParam{{Name: "content", Required: true}},
		Steps: []SpecStep{{Op: OpWriteFile, Args: map[string]string{
			"path":    "notes.txt",
			"content": "{content}",
		}}},
	}
	if err := spec.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	tool := spec.Build(DynamicDeps{SandboxRoot: root})

	if _, err := tool.Run(context.Background(), Params{"content": "remember the milk"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "notes.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "remember the milk" {
		t.Errorf("content = %q", data)
	}
}

func TestSaveAndLoadSpecDir(t *testing.T) {
	dir := t.TempDir()
	spec, _ := ParseSpec([]byte(calcSpec))
	if err := SaveSpec(dir, spec); err != nil {
		t.Fatalf("SaveSpec: %v", err)
	}

	reg := NewRegistry(nil)
	names, err := LoadSpecDir(reg, dir, DynamicDeps{Launcher: &fakeLauncher{}})
	if err != nil {
		t.Fatalf("LoadSpecDir: %v", err)
	}
	if len(names) != 1 || names[0] != "open_calculator" {
		t.Errorf("names = %v", names)
	}
	if !reg.Has("open_calculator") {
		t.Error("tool not registered")
	}
}

func TestLoadSpecDirMissingDirIsNoop(t *testing.T) {
	reg := NewRegistry(nil)
	names, err := LoadSpecDir(reg, filepath.Join(t.TempDir(), "missing"), DynamicDeps{})
	if err != nil || len(names) != 0 {
		t.Errorf("got %v, %v", names, err)
	}
}
