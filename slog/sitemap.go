// Package slog decorates siteshape services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteshape"
)

// Ensure LoggingSitemapService implements siteshape.SitemapService.
var _ siteshape.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   siteshape.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next siteshape.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverSeeds delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverSeeds(ctx context.Context, origin string, limit int) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", origin,
			"limit", limit,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverSeeds(ctx, origin, limit)
}
