package mock

import (
	"context"

	"github.com/fwojciec/siteshape"
)

var _ siteshape.ContentFallback = (*ContentFallback)(nil)

// ContentFallback is a mock implementation of siteshape.ContentFallback.
type ContentFallback struct {
	RetrieveFn func(ctx context.Context, url string) (string, bool)
}

func (f *ContentFallback) Retrieve(ctx context.Context, url string) (string, bool) {
	return f.RetrieveFn(ctx, url)
}
