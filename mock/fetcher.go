package mock

import (
	"context"

	"github.com/fwojciec/siteshape"
)

var _ siteshape.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of siteshape.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*siteshape.PageContent, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*siteshape.PageContent, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
