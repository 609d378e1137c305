// Package rod implements rendered-DOM link discovery with go-rod, for sites
// whose navigation is built by client-side JavaScript.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/fwojciec/siteshape"
)

// Default timings for a rendered page.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultSettleDelay       = 3 * time.Second
)

// anchorsJS returns the resolved href of every anchor in the live DOM.
const anchorsJS = `() => Array.from(document.querySelectorAll("a[href]")).map(a => a.href)`

// Ensure Launcher implements siteshape.BrowserLauncher at compile time.
var _ siteshape.BrowserLauncher = (*Launcher)(nil)

// Ensure Session implements siteshape.BrowserSession at compile time.
var _ siteshape.BrowserSession = (*Session)(nil)

// Launcher starts rod browser sessions.
type Launcher struct {
	navTimeout time.Duration
	settle     time.Duration
	maxPages   int64
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithNavigationTimeout bounds navigation and load of a single page.
// Defaults to DefaultNavigationTimeout (30s).
func WithNavigationTimeout(d time.Duration) Option {
	return func(l *Launcher) {
		l.navTimeout = d
	}
}

// WithSettleDelay sets how long to wait after load for client-side
// rendering. Defaults to DefaultSettleDelay (3s).
func WithSettleDelay(d time.Duration) Option {
	return func(l *Launcher) {
		l.settle = d
	}
}

// WithRecycleAfter sets how many pages a session renders before it
// restarts its browser. Defaults to DefaultMaxPages.
func WithRecycleAfter(n int64) Option {
	return func(l *Launcher) {
		l.maxPages = n
	}
}

// NewLauncher creates a new Launcher.
func NewLauncher(opts ...Option) *Launcher {
	l := &Launcher{
		navTimeout: DefaultNavigationTimeout,
		settle:     DefaultSettleDelay,
		maxPages:   DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts Chrome and returns a session bound to it.
func (l *Launcher) Launch(ctx context.Context) (siteshape.BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manager, err := NewBrowserManager(WithMaxPages(l.maxPages))
	if err != nil {
		return nil, siteshape.Errorf(siteshape.ESESSION, "%v", err)
	}

	return &Session{
		manager:    manager,
		navTimeout: l.navTimeout,
		settle:     l.settle,
	}, nil
}

// Session renders pages in one browser.
type Session struct {
	manager    *BrowserManager
	navTimeout time.Duration
	settle     time.Duration
}

// Links renders url and returns the href of every anchor.
func (s *Session) Links(ctx context.Context, url string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser := s.manager.Browser()
	if browser == nil {
		return nil, siteshape.Errorf(siteshape.ESESSION, "browser closed")
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, siteshape.Errorf(siteshape.ESESSION, "creating page: %v", err)
	}
	defer page.Close()
	defer s.manager.IncrementPageCount()

	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      siteshape.UserAgent,
		AcceptLanguage: "en-GB,en;q=0.9",
	}); err != nil {
		return nil, fmt.Errorf("setting user agent: %w", err)
	}

	nav := page.Timeout(s.navTimeout)
	wait := nav.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := nav.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigating: %w", err)
	}
	wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := nav.GetContext().Err(); err != nil {
		return nil, fmt.Errorf("navigating: %w", err)
	}
	nav.CancelTimeout()

	if err := sleep(ctx, s.settle); err != nil {
		return nil, err
	}

	res, err := page.Eval(anchorsJS)
	if err != nil {
		return nil, fmt.Errorf("reading anchors: %w", err)
	}

	var hrefs []string
	for _, v := range res.Value.Arr() {
		if href := v.Str(); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs, nil
}

// Close shuts the browser down.
func (s *Session) Close() error {
	return s.manager.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
