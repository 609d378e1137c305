package crawl_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/mock"
)

// fakeSite serves pages from memory. URLs without a page answer 404.
type fakeSite struct {
	mu    sync.Mutex
	pages map[string]string
	// status overrides the status of a URL.
	status map[string]int
	// errs makes a URL fail at the network level.
	errs map[string]error
	// redirects maps a requested URL to the URL it is served from.
	redirects map[string]string
	fetched   []string
}

func newFakeSite(pages map[string]string) *fakeSite {
	return &fakeSite{
		pages:     pages,
		status:    map[string]int{},
		errs:      map[string]error{},
		redirects: map[string]string{},
	}
}

func (s *fakeSite) Fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*siteshape.PageContent, error) {
			s.mu.Lock()
			defer s.mu.Unlock()

			s.fetched = append(s.fetched, url)
			if err, ok := s.errs[url]; ok {
				return nil, err
			}
			final := url
			if to, ok := s.redirects[url]; ok {
				final = to
			}
			if code, ok := s.status[url]; ok {
				return &siteshape.PageContent{URL: final, StatusCode: code}, nil
			}
			html, ok := s.pages[final]
			if !ok {
				return &siteshape.PageContent{URL: final, StatusCode: http.StatusNotFound, HTML: "not found"}, nil
			}
			return &siteshape.PageContent{URL: final, StatusCode: http.StatusOK, HTML: html}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func (s *fakeSite) Fetched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

// fallbackFor returns a fallback serving the given texts.
func fallbackFor(texts map[string]string) *mock.ContentFallback {
	return &mock.ContentFallback{
		RetrieveFn: func(_ context.Context, url string) (string, bool) {
			text, ok := texts[url]
			return text, ok
		},
	}
}
