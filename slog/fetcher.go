package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteshape"
)

// Ensure LoggingFetcher implements siteshape.Fetcher.
var _ siteshape.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-request logging.
type LoggingFetcher struct {
	next   siteshape.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next siteshape.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL, status and size of the response.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page *siteshape.PageContent, err error) {
	defer func(begin time.Time) {
		var status, size int
		if page != nil {
			status, size = page.StatusCode, len(page.HTML)
		}
		f.logger.Info("fetch",
			"url", url,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
