package binder

import "testing"

func TestBindDollarReference(t *testing.T) {
	prior := map[string]string{"step1_result": `C:\Users\x\Desktop`}
	params := map[string]any{"file_path": "$step1_result/out.txt"}

	bound := Bind(params, prior)

	if got := bound["file_path"]; got != `C:\Users\x\Desktop/out.txt` {
		t.Errorf("expected substituted path, got %v", got)
	}
}

func TestBindUnresolvableLeftVerbatim(t *testing.T) {
	bound := Bind(map[string]any{"path": "$step9_result"}, map[string]string{})

	if got := bound["path"]; got != "$step9_result" {
		t.Errorf("expected literal reference to survive, got %v", got)
	}
}

func TestBindCurlyAndAngleForms(t *testing.T) {
	prior := map[string]string{
		"step2_result": "hello.txt",
		"step3_result": "/tmp/projects",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"curly short", "open {step 2 result}", "open hello.txt"},
		{"curly long", "open {result from step 2}", "open hello.txt"},
		{"angle short", "open <step 3 result>", "open /tmp/projects"},
		{"angle long", "open <result from step 3>", "open /tmp/projects"},
		{"angle missing", "open <step 7 result>", "open <step 7 result>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bound := Bind(map[string]any{"arg": tt.in}, prior)
			if got := bound["arg"]; got != tt.want {
				t.Errorf("got %v, want %q", got, tt.want)
			}
		})
	}
}

func TestBindDesktopPathAlias(t *testing.T) {
	prior := map[string]string{
		"step1_result": "/home/u/Desktop",
		"step1_tool":   "get_desktop_path",
		"step2_result": "ok",
		"step2_tool":   "create_folder",
	}

	bound := Bind(map[string]any{"path": "<desktop_path>/notes"}, prior)
	if got := bound["path"]; got != "/home/u/Desktop/notes" {
		t.Errorf("expected desktop path substitution, got %v", got)
	}
}

func TestBindDesktopPathUsesMostRecent(t *testing.T) {
	prior := map[string]string{
		"step1_result": "/stale/Desktop",
		"step1_tool":   "get_desktop_path",
		"step3_result": "/fresh/Desktop",
		"step3_tool":   "get_desktop_path",
	}

	bound := Bind(map[string]any{"path": "$desktop_path"}, prior)
	if got := bound["path"]; got != "/fresh/Desktop" {
		t.Errorf("expected most recent desktop path, got %v", got)
	}
}

func TestBindNonStringPassThrough(t *testing.T) {
	params := map[string]any{"count": 3, "enabled": true, "name": "plain"}

	bound := Bind(params, map[string]string{"step1_result": "x"})

	if bound["count"] != 3 {
		t.Errorf("expected int pass-through, got %v", bound["count"])
	}
	if bound["enabled"] != true {
		t.Errorf("expected bool pass-through, got %v", bound["enabled"])
	}
	if bound["name"] != "plain" {
		t.Errorf("expected string without references unchanged, got %v", bound["name"])
	}
}

func TestBindEmptyParameters(t *testing.T) {
	if got := Bind(nil, map[string]string{"step1_result": "x"}); len(got) != 0 {
		t.Errorf("expected empty result for nil parameters, got %v", got)
	}
}
