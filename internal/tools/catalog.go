package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Catalog categories.
const (
	CategoryFiles      = "File Management"
	CategoryApps       = "Application Control"
	CategoryWindows    = "Window Management"
	CategoryWeb        = "Web Browsing"
	CategoryAutomation = "Automation"
	CategoryAudio      = "Audio & Volume"
)

// Deps are the OS capabilities the built-in catalog runs against.
type Deps struct {
	Launcher  Launcher
	Windows   Windows
	Clipboard Clipboard
	Volume    Volume
	Browser   *Browser
}

// DefaultDeps returns production implementations for everything.
func DefaultDeps(headlessBrowser bool) Deps {
	return Deps{
		Launcher:  CommandLauncher{},
		Windows:   XdoWindows{},
		Clipboard: SystemClipboard{},
		Volume:    PactlVolume{},
		Browser:   NewBrowser(headlessBrowser),
	}
}

// RunShellCommand executes an already-validated shell command line.
func RunShellCommand(ctx context.Context, command string) (string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty command")
	}
	out, err := exec.CommandContext(ctx, fields[0], fields[1:]...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("run %s: %w: %s", fields[0], err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// RegisterBuiltins fills the registry with the standard catalog.
func RegisterBuiltins(reg *Registry, d Deps) error {
	catalog := []Tool{
		// File management.
		{
			Name:        "get_desktop_path",
			Description: "Get the path to the user's desktop folder",
			Category:    CategoryFiles,
			Run: func(ctx context.Context, p Params) (string, error) {
				return desktopPath()
			},
		},
		{
			Name:        "get_documents_path",
			Description: "Get the path to the user's documents folder",
			Category:    CategoryFiles,
			Run: func(ctx context.Context, p Params) (string, error) {
				return documentsPath()
			},
		},
		{
			Name:        "create_folder",
			Description: "Create a new folder at a path",
			Category:    CategoryFiles,
			Params: []Param{
				{Name: "path", Required: true, Aliases: []string{"folder_path", "location"}},
				{Name: "name", Aliases: []string{"folder_name"}},
			},
			Run: func(ctx context.Context, p Params) (string, error) {
				path, err := p.Require("path", "folder_path", "location", "name", "folder_name")
				if err != nil {
					return "", err
				}
				name := p.String("name", "folder_name")
				if name == path {
					name = ""
				}
				return createFolder(path, name)
			},
		},
		{
			Name:        "delete_file_or_folder",
			Description: "Delete a file or folder (system paths are protected)",
			Category:    CategoryFiles,
			Params:      []Param{{Name: "path", Required: true, Aliases: []string{"file_path", "target"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				path, err := p.Require("path", "file_path", "target")
				if err != nil {
					return "", err
				}
				return deletePath(path)
			},
		},
		{
			Name:        "list_directory",
			Description: "List the contents of a directory",
			Category:    CategoryFiles,
			Params:      []Param{{Name: "path", Aliases: []string{"directory", "folder"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				return listDirectory(p.String("path", "directory", "folder"))
			},
		},
		{
			Name:        "write_file",
			Description: "Write text content to a file",
			Category:    CategoryFiles,
			Params: []Param{
				{Name: "path", Required: true, Aliases: []string{"file_path", "filename"}},
				{Name: "content", Required: true, Aliases: []string{"text", "data"}},
			},
			Run: func(ctx context.Context, p Params) (string, error) {
				path, err := p.Require("path", "file_path", "filename")
				if err != nil {
					return "", err
				}
				return writeFile(path, p.String("content", "text", "data"))
			},
		},
		{
			Name:        "read_file",
			Description: "Read the contents of a text file",
			Category:    CategoryFiles,
			Params:      []Param{{Name: "path", Required: true, Aliases: []string{"file_path", "filename"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				path, err := p.Require("path", "file_path", "filename")
				if err != nil {
					return "", err
				}
				return readFile(path)
			},
		},

		// Application control.
		{
			Name:        "launch_application",
			Description: "Launch an application by name",
			Category:    CategoryApps,
			Params:      []Param{{Name: "app_name", Required: true, Aliases: []string{"application_name", "app", "app_path"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				app, err := p.Require("app_name", "application_name", "app", "app_path")
				if err != nil {
					return "", err
				}
				cmd, err := d.Launcher.Launch(ctx, app)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Launched %s", cmd), nil
			},
		},
		{
			Name:        "kill_process",
			Description: "Terminate processes matching a name",
			Category:    CategoryApps,
			Params:      []Param{{Name: "process_name", Required: true, Aliases: []string{"process", "name"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				proc, err := p.Require("process_name", "process", "name")
				if err != nil {
					return "", err
				}
				n, err := d.Launcher.Kill(ctx, proc)
				if err != nil {
					return "", err
				}
				if n == 0 {
					return fmt.Sprintf("No running instances of %s found", proc), nil
				}
				return fmt.Sprintf("Killed %d instance(s) of %s", n, proc), nil
			},
		},
		{
			Name:        "open_file",
			Description: "Open a file or folder with its default application",
			Category:    CategoryApps,
			Params:      []Param{{Name: "path", Required: true, Aliases: []string{"file_path", "target"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				path, err := p.Require("path", "file_path", "target")
				if err != nil {
					return "", err
				}
				if err := d.Launcher.Open(ctx, path); err != nil {
					return "", err
				}
				return fmt.Sprintf("Opened %s", path), nil
			},
		},

		// Window management.
		{
			Name:        "get_active_window",
			Description: "Get the title of the currently focused window",
			Category:    CategoryWindows,
			Run: func(ctx context.Context, p Params) (string, error) {
				return d.Windows.ActiveTitle(ctx)
			},
		},
		{
			Name:        "list_all_windows",
			Description: "List the titles of all open windows",
			Category:    CategoryWindows,
			Run: func(ctx context.Context, p Params) (string, error) {
				titles, err := d.Windows.List(ctx)
				if err != nil {
					return "", err
				}
				if len(titles) == 0 {
					return "No open windows", nil
				}
				return strings.Join(titles, "\n"), nil
			},
		},
		{
			Name:        "focus_window",
			Description: "Bring a window to the foreground by title",
			Category:    CategoryWindows,
			Params:      []Param{{Name: "title", Required: true, Aliases: []string{"window_title", "name"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				title, err := p.Require("title", "window_title", "name")
				if err != nil {
					return "", err
				}
				if err := d.Windows.Focus(ctx, title); err != nil {
					return "", err
				}
				return fmt.Sprintf("Focused window %q", title), nil
			},
		},

		// Web browsing.
		{
			Name:        "open_website",
			Description: "Open a website in the managed browser",
			Category:    CategoryWeb,
			Params:      []Param{{Name: "url", Required: true, Aliases: []string{"website", "address"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				u, err := p.Require("url", "website", "address")
				if err != nil {
					return "", err
				}
				return d.Browser.OpenWebsite(ctx, u)
			},
		},
		{
			Name:        "search_google",
			Description: "Search Google for a query",
			Category:    CategoryWeb,
			Params:      []Param{{Name: "query", Required: true, Aliases: []string{"q", "search_query", "text"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				q, err := p.Require("query", "q", "search_query", "text")
				if err != nil {
					return "", err
				}
				return d.Browser.SearchGoogle(ctx, q)
			},
		},
		{
			Name:        "open_youtube",
			Description: "Open YouTube, optionally searching for a video",
			Category:    CategoryWeb,
			Params:      []Param{{Name: "query", Aliases: []string{"q", "search_query", "video"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				return d.Browser.OpenYouTube(ctx, p.String("query", "q", "search_query", "video"))
			},
		},
		{
			Name:        "click_first_result",
			Description: "Click the first result on the current search page",
			Category:    CategoryWeb,
			Run: func(ctx context.Context, p Params) (string, error) {
				return d.Browser.ClickFirstResult(ctx)
			},
		},

		// Automation.
		{
			Name:        "type_text",
			Description: "Type text into the focused window",
			Category:    CategoryAutomation,
			Params:      []Param{{Name: "text", Required: true, Aliases: []string{"content", "message"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				text, err := p.Require("text", "content", "message")
				if err != nil {
					return "", err
				}
				if err := d.Windows.TypeText(ctx, text); err != nil {
					return "", err
				}
				return fmt.Sprintf("Typed %d characters", len(text)), nil
			},
		},
		{
			Name:        "press_key",
			Description: "Press a key or key chord, e.g. Return or ctrl+s",
			Category:    CategoryAutomation,
			Params:      []Param{{Name: "key", Required: true, Aliases: []string{"keys", "shortcut"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				key, err := p.Require("key", "keys", "shortcut")
				if err != nil {
					return "", err
				}
				if err := d.Windows.PressKey(ctx, key); err != nil {
					return "", err
				}
				return fmt.Sprintf("Pressed %s", key), nil
			},
		},
		{
			Name:        "click_at",
			Description: "Click at absolute screen coordinates",
			Category:    CategoryAutomation,
			Params: []Param{
				{Name: "x", Required: true},
				{Name: "y", Required: true},
			},
			Run: func(ctx context.Context, p Params) (string, error) {
				x := p.Int(-1, "x")
				y := p.Int(-1, "y")
				if x < 0 || y < 0 {
					return "", fmt.Errorf("x and y coordinates are required")
				}
				if err := d.Windows.ClickAt(ctx, x, y); err != nil {
					return "", err
				}
				return fmt.Sprintf("Clicked at %d,%d", x, y), nil
			},
		},
		{
			Name:        "click_element",
			Description: "Click a described on-screen element (needs visual assistance)",
			Category:    CategoryAutomation,
			NeedsVision: true,
			Params:      []Param{{Name: "description", Required: true, Aliases: []string{"element", "target"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				return "", fmt.Errorf("click_element requires visual assistance")
			},
		},
		{
			Name:        "get_clipboard",
			Description: "Read the current clipboard contents",
			Category:    CategoryAutomation,
			Run: func(ctx context.Context, p Params) (string, error) {
				return d.Clipboard.Get()
			},
		},
		{
			Name:        "set_clipboard",
			Description: "Copy text to the clipboard",
			Category:    CategoryAutomation,
			Params:      []Param{{Name: "text", Required: true, Aliases: []string{"content"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				text, err := p.Require("text", "content")
				if err != nil {
					return "", err
				}
				if err := d.Clipboard.Set(text); err != nil {
					return "", err
				}
				return fmt.Sprintf("Copied %d characters to clipboard", len(text)), nil
			},
		},

		// Audio.
		{
			Name:        "get_volume",
			Description: "Get the current system volume",
			Category:    CategoryAudio,
			Run: func(ctx context.Context, p Params) (string, error) {
				v, err := d.Volume.Get(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Volume is at %d%%", v), nil
			},
		},
		{
			Name:        "set_volume",
			Description: "Set the system volume (0-100)",
			Category:    CategoryAudio,
			Params:      []Param{{Name: "level", Required: true, Aliases: []string{"volume", "percent"}}},
			Run: func(ctx context.Context, p Params) (string, error) {
				level := p.Int(-1, "level", "volume", "percent")
				if level < 0 {
					return "", fmt.Errorf("volume level is required")
				}
				if err := d.Volume.Set(ctx, level); err != nil {
					return "", err
				}
				return fmt.Sprintf("Volume set to %d%%", level), nil
			},
		},
		{
			Name:        "mute_volume",
			Description: "Mute the system audio",
			Category:    CategoryAudio,
			Run: func(ctx context.Context, p Params) (string, error) {
				if err := d.Volume.Mute(ctx, true); err != nil {
					return "", err
				}
				return "Audio muted", nil
			},
		},
		{
			Name:        "unmute_volume",
			Description: "Unmute the system audio",
			Category:    CategoryAudio,
			Run: func(ctx context.Context, p Params) (string, error) {
				if err := d.Volume.Mute(ctx, false); err != nil {
					return "", err
				}
				return "Audio unmuted", nil
			},
		},
	}

	for _, t := range catalog {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
