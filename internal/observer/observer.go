// Package observer implements environment observation: classifying the
// active window into a screen context, listing the affordances a context
// offers, and waiting for the screen to settle after an action. Observation
// is deliberately cheap; vision analysis is a separate, explicit path.
package observer

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/glowdesk/glow/pkg/models"
)

// WindowTitler reports the active window title. The production
// implementation shells out to the window manager; tests use a fake.
type WindowTitler interface {
	ActiveTitle(ctx context.Context) (string, error)
}

// Keyword tables for title classification. Order matters: desktop
// indicators are checked first, then known websites, then browsers, then
// applications.
var (
	browserKeywords = []string{"chrome", "chromium", "edge", "firefox", "brave", "opera", "safari"}

	appKeywords = []string{
		"word", "excel", "powerpoint", "code", "gedit", "notepad",
		"visual studio", "pycharm", "discord", "slack", "spotify",
		"text editor", "calculator", "files",
	}

	desktopIndicators = []string{
		"", "program manager", "desktop", "python", "powershell",
		"cmd", "terminal", "bash",
	}

	websiteKeywords = []string{
		"google", "youtube", "amazon", "github", "wikipedia",
		"gmail", "reddit", "stack overflow",
	}
)

// Observer classifies the current screen and infers affordances.
type Observer struct {
	titler WindowTitler
	logger *zap.SugaredLogger
}

// New creates an Observer over the given title source.
func New(titler WindowTitler, logger *zap.SugaredLogger) *Observer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Observer{titler: titler, logger: logger}
}

// Observe captures the current screen state. A failure to read the window
// title degrades to an unknown-context observation rather than an error:
// the orchestrator must keep running on a desktop that is momentarily
// unreadable.
func (o *Observer) Observe(ctx context.Context) models.Observation {
	title, err := o.titler.ActiveTitle(ctx)
	if err != nil {
		o.logger.Warnw("could not read active window", "error", err)
		title = ""
	}

	sctx := Classify(title)
	return models.Observation{
		Context:     sctx,
		WindowTitle: title,
		Affordances: Affordances(sctx, title),
		ObservedAt:  time.Now(),
	}
}

// Classify maps a window title to a screen context.
func Classify(title string) models.ContextType {
	lower := strings.ToLower(strings.TrimSpace(title))

	for _, ind := range desktopIndicators {
		if lower == ind {
			return models.ContextDesktop
		}
	}
	if strings.Contains(lower, "terminal") || strings.Contains(lower, "powershell") {
		return models.ContextDesktop
	}

	inBrowser := containsAny(lower, browserKeywords)
	if inBrowser && containsAny(lower, websiteKeywords) {
		return models.ContextWebsite
	}
	if inBrowser {
		return models.ContextBrowser
	}
	if containsAny(lower, appKeywords) {
		return models.ContextApplication
	}
	return models.ContextUnknown
}

// Affordances lists what the context likely offers for interaction. This is
// the cheap inference used when vision is not engaged.
func Affordances(sctx models.ContextType, title string) []string {
	switch sctx {
	case models.ContextDesktop:
		return []string{"app_launcher", "taskbar_icons", "desktop_icons"}

	case models.ContextBrowser, models.ContextWebsite:
		a := []string{
			"address_bar", "search_input", "back_button",
			"forward_button", "refresh_button", "tabs",
		}
		lower := strings.ToLower(title)
		switch {
		case strings.Contains(lower, "google"):
			a = append(a, "google_search_box", "google_search_button")
		case strings.Contains(lower, "youtube"):
			a = append(a, "youtube_search_box")
		case strings.Contains(lower, "amazon"):
			a = append(a, "amazon_search_box", "amazon_search_button")
		}
		return a

	case models.ContextApplication:
		return []string{"menu_bar", "toolbar", "content_area"}

	default:
		return nil
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}
