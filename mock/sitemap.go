package mock

import (
	"context"

	"github.com/fwojciec/siteshape"
)

var _ siteshape.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of siteshape.SitemapService.
type SitemapService struct {
	DiscoverSeedsFn func(ctx context.Context, origin string, limit int) ([]string, error)
}

func (s *SitemapService) DiscoverSeeds(ctx context.Context, origin string, limit int) ([]string, error) {
	return s.DiscoverSeedsFn(ctx, origin, limit)
}
