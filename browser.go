package siteshape

import "context"

// BrowserLauncher starts headless browser sessions for rendered-DOM discovery.
type BrowserLauncher interface {
	// Launch starts an isolated browser session. The caller must Close it.
	Launch(ctx context.Context) (BrowserSession, error)
}

// BrowserSession is a single browser with one browsing context.
// It is scoped to one discovery call.
type BrowserSession interface {
	// Links opens a page, navigates to url, waits for client-side rendering
	// to settle and returns the absolute href of every anchor in the live DOM.
	// The page is closed before Links returns, whatever the outcome.
	//
	// Errors with code ESESSION mean the session itself is unusable.
	Links(ctx context.Context, url string) ([]string, error)

	// Close shuts down the browsing context and the browser.
	Close() error
}
