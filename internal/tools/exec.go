package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// appAliases maps the names the planner tends to emit to the commands the
// desktop actually has.
var appAliases = map[string]string{
	"notepad":    "gedit",
	"texteditor": "gedit",
	"calculator": "gnome-calculator",
	"calc":       "gnome-calculator",
	"files":      "nautilus",
	"explorer":   "nautilus",
	"terminal":   "gnome-terminal",
	"chrome":     "google-chrome",
	"browser":    "xdg-open",
	"vscode":     "code",
	"code":       "code",
}

// CommandLauncher is the production Launcher: it starts applications as
// detached child processes.
type CommandLauncher struct{}

func (CommandLauncher) Launch(ctx context.Context, app string) (string, error) {
	name := strings.TrimSpace(app)
	if name == "" {
		return "", fmt.Errorf("no application name given")
	}
	if resolved, ok := appAliases[strings.ToLower(name)]; ok {
		name = resolved
	}

	cmd := exec.CommandContext(ctx, name)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("launch %s: %w", name, err)
	}
	// The child outlives the tool call; reap it in the background so it
	// does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return name, nil
}

func (CommandLauncher) Kill(ctx context.Context, process string) (int, error) {
	process = strings.TrimSpace(process)
	if process == "" {
		return 0, fmt.Errorf("no process name given")
	}
	out, err := exec.CommandContext(ctx, "pkill", "-c", "-f", process).Output()
	if err != nil {
		// pkill exits 1 when nothing matched.
		if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
			return 0, nil
		}
		return 0, fmt.Errorf("kill %s: %w", process, err)
	}
	n, _ := strconv.Atoi(strings.TrimSpace(string(out)))
	return n, nil
}

func (CommandLauncher) Open(ctx context.Context, target string) error {
	if err := exec.CommandContext(ctx, "xdg-open", target).Run(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

// XdoWindows is the production Windows implementation on xdotool.
type XdoWindows struct{}

func (XdoWindows) ActiveTitle(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowname").Output()
	if err != nil {
		return "", fmt.Errorf("active window title: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (XdoWindows) List(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "xdotool", "search", "--onlyvisible", "--name", ".", "getwindowname", "%@").Output()
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	var titles []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			titles = append(titles, line)
		}
	}
	return titles, nil
}

func (XdoWindows) Focus(ctx context.Context, title string) error {
	err := exec.CommandContext(ctx, "xdotool", "search", "--name", title, "windowactivate").Run()
	if err != nil {
		return fmt.Errorf("focus window %q: %w", title, err)
	}
	return nil
}

func (XdoWindows) TypeText(ctx context.Context, text string) error {
	err := exec.CommandContext(ctx, "xdotool", "type", "--delay", "30", "--", text).Run()
	if err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	return nil
}

func (XdoWindows) PressKey(ctx context.Context, key string) error {
	if err := exec.CommandContext(ctx, "xdotool", "key", "--", key).Run(); err != nil {
		return fmt.Errorf("press key %s: %w", key, err)
	}
	return nil
}

func (XdoWindows) ClickAt(ctx context.Context, x, y int) error {
	err := exec.CommandContext(ctx, "xdotool",
		"mousemove", strconv.Itoa(x), strconv.Itoa(y), "click", "1").Run()
	if err != nil {
		return fmt.Errorf("click at %d,%d: %w", x, y, err)
	}
	return nil
}

// PactlVolume controls the default PulseAudio sink.
type PactlVolume struct{}

func (PactlVolume) Get(ctx context.Context) (int, error) {
	out, err := exec.CommandContext(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@").Output()
	if err != nil {
		return 0, fmt.Errorf("get volume: %w", err)
	}
	// Output looks like "Volume: front-left: 39322 /  60% / ...".
	for _, field := range strings.Fields(string(out)) {
		if strings.HasSuffix(field, "%") {
			if n, err := strconv.Atoi(strings.TrimSuffix(field, "%")); err == nil {
				return n, nil
			}
		}
	}
	return 0, fmt.Errorf("get volume: no percentage in pactl output")
}

func (PactlVolume) Set(ctx context.Context, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	err := exec.CommandContext(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@",
		fmt.Sprintf("%d%%", percent)).Run()
	if err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

func (PactlVolume) Mute(ctx context.Context, muted bool) error {
	arg := "0"
	if muted {
		arg = "1"
	}
	if err := exec.CommandContext(ctx, "pactl", "set-sink-mute", "@DEFAULT_SINK@", arg).Run(); err != nil {
		return fmt.Errorf("set mute: %w", err)
	}
	return nil
}
