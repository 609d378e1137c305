// Package chromedp implements rendered-DOM link discovery with chromedp.
// It is an alternative to package rod for environments where the DevTools
// protocol is driven directly.
package chromedp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/fwojciec/siteshape"
)

// Default timings for a rendered page.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultSettleDelay       = 3 * time.Second
)

const anchorsJS = `Array.from(document.querySelectorAll("a[href]")).map(a => a.href)`

var (
	_ siteshape.BrowserLauncher = (*Launcher)(nil)
	_ siteshape.BrowserSession  = (*Session)(nil)
)

// Launcher starts chromedp browser sessions.
type Launcher struct {
	navTimeout time.Duration
	settle     time.Duration
	execPath   string
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithNavigationTimeout bounds navigation and load of a single page.
func WithNavigationTimeout(d time.Duration) Option {
	return func(l *Launcher) { l.navTimeout = d }
}

// WithSettleDelay sets the pause after load for client-side rendering.
func WithSettleDelay(d time.Duration) Option {
	return func(l *Launcher) { l.settle = d }
}

// WithExecPath sets the Chrome binary. By default chromedp searches the
// usual install locations.
func WithExecPath(path string) Option {
	return func(l *Launcher) { l.execPath = path }
}

// NewLauncher creates a new Launcher.
func NewLauncher(opts ...Option) *Launcher {
	l := &Launcher{
		navTimeout: DefaultNavigationTimeout,
		settle:     DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch starts a headless Chrome process with its own profile.
func (l *Launcher) Launch(ctx context.Context) (siteshape.BrowserSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.UserAgent(siteshape.UserAgent),
	)
	if l.execPath != "" {
		opts = append(opts, chromedp.ExecPath(l.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, siteshape.Errorf(siteshape.ESESSION, "launching browser: %v", err)
	}

	// Tabs share one incognito browser context, disposed of on Close.
	sessionCtx, sessionCancel := chromedp.NewContext(browserCtx, chromedp.WithNewBrowserContext())
	if err := chromedp.Run(sessionCtx); err != nil {
		sessionCancel()
		browserCancel()
		allocCancel()
		return nil, siteshape.Errorf(siteshape.ESESSION, "creating browser context: %v", err)
	}

	return &Session{
		browserCtx: sessionCtx,
		cancel: func() {
			sessionCancel()
			browserCancel()
			allocCancel()
		},
		navTimeout: l.navTimeout,
		settle:     l.settle,
	}, nil
}

// Session renders pages as tabs of one browser.
type Session struct {
	browserCtx context.Context
	cancel     func()
	navTimeout time.Duration
	settle     time.Duration
	closeOnce  sync.Once
}

// Links opens url in a new tab and returns the href of every anchor.
func (s *Session) Links(ctx context.Context, url string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.browserCtx.Err() != nil {
		return nil, siteshape.Errorf(siteshape.ESESSION, "browser closed")
	}

	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	defer tabCancel()

	if err := chromedp.Run(tabCtx, network.SetExtraHTTPHeaders(network.Headers{
		"Accept-Language": "en-GB,en;q=0.9",
	})); err != nil {
		if s.browserCtx.Err() != nil {
			return nil, siteshape.Errorf(siteshape.ESESSION, "creating page: %v", err)
		}
		return nil, fmt.Errorf("creating page: %w", err)
	}

	navCtx, navCancel := context.WithTimeout(tabCtx, s.navTimeout)
	defer navCancel()
	stop := context.AfterFunc(ctx, navCancel)
	defer stop()

	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("navigating: %w", err)
	}
	navCancel()

	var hrefs []string
	evalCtx, evalCancel := context.WithCancel(tabCtx)
	defer evalCancel()
	stopEval := context.AfterFunc(ctx, evalCancel)
	defer stopEval()

	if err := chromedp.Run(evalCtx,
		chromedp.Sleep(s.settle),
		chromedp.Evaluate(anchorsJS, &hrefs),
	); err != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("reading anchors: %w", err)
	}
	return hrefs, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(s.cancel)
	return nil
}
