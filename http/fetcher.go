// Package http implements page fetching and sitemap discovery over plain
// HTTP, for sites whose links are present without running JavaScript.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/siteshape"
)

// DefaultFetchTimeout bounds a single request including redirects and body.
const DefaultFetchTimeout = 20 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// Ensure Fetcher implements siteshape.Fetcher at compile time.
var _ siteshape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with browser-like request headers.
type Fetcher struct {
	client *http.Client
}

// Option configures a Fetcher or SitemapService.
type Option func(*options)

type options struct {
	timeout time.Duration
	client  *http.Client
}

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (20s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithClient sets the underlying HTTP client. Its Timeout is overridden by
// WithTimeout.
func WithClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

func buildOptions(opts []Option) options {
	o := options{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{}
	}
	c := *o.client
	c.Timeout = o.timeout
	o.client = &c
	return o
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := buildOptions(opts)
	return &Fetcher{client: o.client}
}

// Fetch retrieves url, following redirects. Non-2xx responses are returned
// with their status and body rather than as errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*siteshape.PageContent, error) {
	resp, err := get(ctx, f.client, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}

	return &siteshape.PageContent{
		URL:        final,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}

// Close is a no-op; http.Client needs no explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", siteshape.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	return client.Do(req)
}
