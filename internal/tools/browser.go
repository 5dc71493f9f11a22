package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// browserTimeout bounds every individual browser action.
const browserTimeout = 60 * time.Second

// Browser owns a single managed Chrome session shared by all browser tools.
// The session starts lazily on first use and stays open across actions so
// multi-step goals keep their page state.
type Browser struct {
	mu            sync.Mutex
	headless      bool
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewBrowser creates an unstarted browser session.
func NewBrowser(headless bool) *Browser {
	return &Browser{headless: headless}
}

// session returns the live browser context, starting Chrome if needed.
func (b *Browser) session(ctx context.Context) (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		select {
		case <-b.browserCtx.Done():
			b.closeLocked()
		default:
			return b.browserCtx, nil
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)
	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.browserCtx, b.browserCancel = chromedp.NewContext(b.allocCtx)

	if err := chromedp.Run(b.browserCtx); err != nil {
		b.closeLocked()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	// Caller's deadline still applies through the per-action timeout below.
	_ = ctx
	return b.browserCtx, nil
}

func (b *Browser) closeLocked() {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.browserCtx = nil
	b.allocCtx = nil
}

// Close shuts down the Chrome session if one is running.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

// run executes chromedp actions against the shared session with a timeout.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	sess, err := b.session(ctx)
	if err != nil {
		return err
	}
	actionCtx, cancel := context.WithTimeout(sess, browserTimeout)
	defer cancel()
	return chromedp.Run(actionCtx, actions...)
}

// normalizeURL adds a scheme when the planner hands over a bare domain.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return raw
}

// OpenWebsite navigates the managed browser to the given URL.
func (b *Browser) OpenWebsite(ctx context.Context, rawURL string) (string, error) {
	target := normalizeURL(rawURL)
	if target == "" {
		return "", fmt.Errorf("no url given")
	}
	err := b.run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", target, err)
	}
	return fmt.Sprintf("Opened %s", target), nil
}

// SearchGoogle opens a Google search results page for the query.
func (b *Browser) SearchGoogle(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("no query given")
	}
	target := "https://www.google.com/search?q=" + url.QueryEscape(query)
	err := b.run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("search google: %w", err)
	}
	return fmt.Sprintf("Searched Google for %q", query), nil
}

// OpenYouTube opens YouTube, optionally landing on search results.
func (b *Browser) OpenYouTube(ctx context.Context, query string) (string, error) {
	target := "https://www.youtube.com"
	if strings.TrimSpace(query) != "" {
		target += "/results?search_query=" + url.QueryEscape(query)
	}
	err := b.run(ctx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("open youtube: %w", err)
	}
	if query != "" {
		return fmt.Sprintf("Opened YouTube search for %q", query), nil
	}
	return "Opened YouTube", nil
}

// ClickFirstResult clicks the first organic result on the current search
// page. Works on Google and YouTube result layouts.
func (b *Browser) ClickFirstResult(ctx context.Context) (string, error) {
	// Google wraps organic results in h3 headings inside anchor tags;
	// YouTube uses video-title links.
	const selector = `div#search a h3, a#video-title`
	err := b.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("click first result: %w", err)
	}
	return "Clicked the first result", nil
}

// PageTitle returns the current page's title, used for context observation.
func (b *Browser) PageTitle(ctx context.Context) (string, error) {
	var title string
	if err := b.run(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("page title: %w", err)
	}
	return title, nil
}
