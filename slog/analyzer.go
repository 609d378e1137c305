package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteshape"
)

// Ensure LoggingSiteAnalyzer implements siteshape.SiteAnalyzer.
var _ siteshape.SiteAnalyzer = (*LoggingSiteAnalyzer)(nil)

// LoggingSiteAnalyzer wraps a SiteAnalyzer with one log line per operation.
type LoggingSiteAnalyzer struct {
	next   siteshape.SiteAnalyzer
	logger *slog.Logger
}

// NewLoggingSiteAnalyzer creates a new LoggingSiteAnalyzer.
func NewLoggingSiteAnalyzer(next siteshape.SiteAnalyzer, logger *slog.Logger) *LoggingSiteAnalyzer {
	return &LoggingSiteAnalyzer{next: next, logger: logger}
}

func (a *LoggingSiteAnalyzer) DiscoverSiteURLs(ctx context.Context, req *siteshape.DiscoverRequest) (resp *siteshape.DiscoverResponse, err error) {
	defer func(begin time.Time) {
		var count, failures int
		if resp != nil {
			count, failures = resp.Total, len(resp.Errors)
		}
		a.logger.Info("discover",
			"url", req.URL,
			"count", count,
			"errors", failures,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.DiscoverSiteURLs(ctx, req)
}

func (a *LoggingSiteAnalyzer) AnalyseSiteAndGroupByTemplates(ctx context.Context, req *siteshape.AnalyseRequest) (resp *siteshape.AnalyseResponse, err error) {
	defer func(begin time.Time) {
		var pages, templates, failures int
		if resp != nil {
			pages, templates, failures = resp.TotalPages, len(resp.Templates), len(resp.Errors)
		}
		a.logger.Info("analyse",
			"url", req.URL,
			"pages", pages,
			"templates", templates,
			"errors", failures,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.AnalyseSiteAndGroupByTemplates(ctx, req)
}
