package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteshape"
)

// Ensure LoggingBrowserLauncher implements siteshape.BrowserLauncher.
var _ siteshape.BrowserLauncher = (*LoggingBrowserLauncher)(nil)

// LoggingBrowserLauncher wraps a BrowserLauncher so that launches and every
// rendered page are logged.
type LoggingBrowserLauncher struct {
	next   siteshape.BrowserLauncher
	logger *slog.Logger
}

// NewLoggingBrowserLauncher creates a new LoggingBrowserLauncher.
func NewLoggingBrowserLauncher(next siteshape.BrowserLauncher, logger *slog.Logger) *LoggingBrowserLauncher {
	return &LoggingBrowserLauncher{next: next, logger: logger}
}

// Launch logs the launch and wraps the returned session.
func (l *LoggingBrowserLauncher) Launch(ctx context.Context) (_ siteshape.BrowserSession, err error) {
	defer func(begin time.Time) {
		l.logger.Info("browser launch",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	session, err := l.next.Launch(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingBrowserSession{next: session, logger: l.logger}, nil
}

type loggingBrowserSession struct {
	next   siteshape.BrowserSession
	logger *slog.Logger
}

func (s *loggingBrowserSession) Links(ctx context.Context, url string) (links []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("render",
			"url", url,
			"links", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Links(ctx, url)
}

func (s *loggingBrowserSession) Close() error {
	err := s.next.Close()
	if err != nil {
		s.logger.Warn("browser close", "err", err)
	}
	return err
}
