package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteshape"
)

// Ensure LoggingFallback implements siteshape.ContentFallback.
var _ siteshape.ContentFallback = (*LoggingFallback)(nil)

// LoggingFallback wraps a ContentFallback with logging.
type LoggingFallback struct {
	next   siteshape.ContentFallback
	logger *slog.Logger
}

// NewLoggingFallback creates a new LoggingFallback.
func NewLoggingFallback(next siteshape.ContentFallback, logger *slog.Logger) *LoggingFallback {
	return &LoggingFallback{next: next, logger: logger}
}

// Retrieve delegates to the wrapped fallback and logs whether it produced text.
func (f *LoggingFallback) Retrieve(ctx context.Context, url string) (text string, ok bool) {
	defer func(begin time.Time) {
		f.logger.Info("fallback",
			"url", url,
			"ok", ok,
			"html", siteshape.LooksLikeHTML(text),
			"bytes", len(text),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Retrieve(ctx, url)
}
