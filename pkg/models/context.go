package models

import "time"

// ContextType classifies what kind of screen surface is currently active.
type ContextType string

const (
	// ContextDesktop indicates the desktop or a shell/terminal is in front.
	ContextDesktop ContextType = "desktop"
	// ContextBrowser indicates a web browser window is in front.
	ContextBrowser ContextType = "browser"
	// ContextApplication indicates a known productivity application is in front.
	ContextApplication ContextType = "application"
	// ContextWebsite indicates a browser showing a recognized site.
	ContextWebsite ContextType = "website"
	// ContextUnknown is the fallback when no keyword matches.
	ContextUnknown ContextType = "unknown"
)

// Valid returns true if the context type is a known value.
func (c ContextType) Valid() bool {
	switch c {
	case ContextDesktop, ContextBrowser, ContextApplication, ContextWebsite, ContextUnknown:
		return true
	default:
		return false
	}
}

// Observation is a snapshot of environment state at one point in time.
// Each observation supersedes the previous one; no history is retained.
type Observation struct {
	// Context is the coarse classification of the active surface.
	Context ContextType `json:"context"`
	// WindowTitle is the title of the currently active window.
	WindowTitle string `json:"window_title"`
	// Affordances lists inferred interactable elements (e.g. "address_bar").
	Affordances []string `json:"affordances,omitempty"`
	// ObservedAt is when the snapshot was taken.
	ObservedAt time.Time `json:"observed_at"`
}
