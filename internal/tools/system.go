package tools

import "context"

// Launcher starts and stops desktop applications. The production
// implementation shells out; tests substitute a fake.
type Launcher interface {
	// Launch starts the named application and returns the resolved command.
	Launch(ctx context.Context, app string) (string, error)
	// Kill terminates processes matching the given name and returns how
	// many were signalled.
	Kill(ctx context.Context, process string) (int, error)
	// Open hands a file or URL to the desktop's default opener.
	Open(ctx context.Context, target string) error
}

// Windows drives the window manager and synthetic input.
type Windows interface {
	// ActiveTitle returns the focused window's title.
	ActiveTitle(ctx context.Context) (string, error)
	// List returns the titles of all visible windows.
	List(ctx context.Context) ([]string, error)
	// Focus raises the first window whose title matches.
	Focus(ctx context.Context, title string) error
	// TypeText types the text into the focused window.
	TypeText(ctx context.Context, text string) error
	// PressKey sends a single key chord, e.g. "Return" or "ctrl+s".
	PressKey(ctx context.Context, key string) error
	// ClickAt clicks at absolute screen coordinates.
	ClickAt(ctx context.Context, x, y int) error
}

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// Volume controls the default audio sink.
type Volume interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, percent int) error
	Mute(ctx context.Context, muted bool) error
}
