package crawl

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fwojciec/siteshape"
)

// pageState is the lifecycle of one URL within a crawl.
//
//	Pending -> Fetching -> Success
//	                    -> Failed -> FallbackFetching -> Success
//	                                                  -> Excluded
type pageState int

const (
	statePending pageState = iota
	stateFetching
	stateFailed
	stateFallbackFetching
	stateSuccess
	stateExcluded
)

func (s pageState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateFetching:
		return "fetching"
	case stateFailed:
		return "failed"
	case stateFallbackFetching:
		return "fallback_fetching"
	case stateSuccess:
		return "success"
	case stateExcluded:
		return "excluded"
	}
	return "unknown"
}

// pageVisit carries one URL through its states.
type pageVisit struct {
	url   string
	state pageState

	// Set on Success. base is the URL relative links resolve against.
	html string
	base string

	// Set on Failed.
	status   int
	fetchErr error
}

// failure formats the diagnostic for an excluded page.
func (v *pageVisit) failure() string {
	if v.fetchErr != nil {
		return v.url + ": " + errorReason(v.fetchErr)
	}
	return fmt.Sprintf("%s: HTTP %d", v.url, v.status)
}

// pageLoader drives pages through the fetch and fallback states.
type pageLoader struct {
	fetcher  siteshape.Fetcher
	fallback siteshape.ContentFallback
	limiter  siteshape.DomainLimiter
}

// load runs url to a terminal state, Success or Excluded.
func (l *pageLoader) load(ctx context.Context, rawURL string) *pageVisit {
	v := &pageVisit{url: rawURL, state: statePending}
	for {
		switch v.state {
		case statePending:
			v.state = stateFetching
		case stateFetching:
			l.fetch(ctx, v)
		case stateFailed:
			v.state = stateFallbackFetching
		case stateFallbackFetching:
			l.retrieveFallback(ctx, v)
		case stateSuccess, stateExcluded:
			return v
		}
	}
}

func (l *pageLoader) fetch(ctx context.Context, v *pageVisit) {
	if l.limiter != nil {
		if u, err := url.Parse(v.url); err == nil {
			if err := l.limiter.Wait(ctx, u.Host); err != nil {
				v.fetchErr = err
				v.state = stateFailed
				return
			}
		}
	}

	page, err := l.fetcher.Fetch(ctx, v.url)
	if err != nil {
		v.fetchErr = err
		v.state = stateFailed
		return
	}
	if !page.OK() {
		v.status = page.StatusCode
		v.state = stateFailed
		return
	}

	v.html = page.HTML
	v.base = page.URL
	if v.base == "" {
		v.base = v.url
	}
	v.state = stateSuccess
}

func (l *pageLoader) retrieveFallback(ctx context.Context, v *pageVisit) {
	if l.fallback == nil || ctx.Err() != nil {
		v.state = stateExcluded
		return
	}
	text, ok := l.fallback.Retrieve(ctx, v.url)
	if !ok || !siteshape.LooksLikeHTML(text) {
		v.state = stateExcluded
		return
	}
	v.html = text
	v.base = v.url
	v.state = stateSuccess
}

// errorReason renders err for a per-URL diagnostic.
func errorReason(err error) string {
	if siteshape.ErrorCode(err) != siteshape.EINTERNAL {
		return siteshape.ErrorMessage(err)
	}
	return err.Error()
}
