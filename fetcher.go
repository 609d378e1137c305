package siteshape

import "context"

// PageContent is a fetched page. It is consumed immediately for link
// extraction or signature building and never persisted.
type PageContent struct {
	// URL is the post-redirect URL the body was served from. Relative links
	// on the page resolve against it.
	URL string

	StatusCode int
	HTML       string
}

// OK reports whether the response carried a 2xx status.
func (p *PageContent) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// Fetcher retrieves pages over plain HTTP.
type Fetcher interface {
	// Fetch issues a GET for url and follows redirects.
	// A non-2xx response is returned as a PageContent, not an error, so the
	// caller can decide whether to fall back. Network failures and timeouts
	// are returned as errors.
	Fetch(ctx context.Context, url string) (*PageContent, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// UserAgent is a desktop Chrome user agent sent by every fetcher and browser
// session. Some hosts answer non-browser agents with 403 or JSON.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
