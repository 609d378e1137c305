package mock

import (
	"context"

	"github.com/fwojciec/siteshape"
)

var _ siteshape.BrowserLauncher = (*BrowserLauncher)(nil)

// BrowserLauncher is a mock implementation of siteshape.BrowserLauncher.
type BrowserLauncher struct {
	LaunchFn func(ctx context.Context) (siteshape.BrowserSession, error)
}

func (l *BrowserLauncher) Launch(ctx context.Context) (siteshape.BrowserSession, error) {
	return l.LaunchFn(ctx)
}

var _ siteshape.BrowserSession = (*BrowserSession)(nil)

// BrowserSession is a mock implementation of siteshape.BrowserSession.
type BrowserSession struct {
	LinksFn func(ctx context.Context, url string) ([]string, error)
	CloseFn func() error
}

func (s *BrowserSession) Links(ctx context.Context, url string) ([]string, error) {
	return s.LinksFn(ctx, url)
}

func (s *BrowserSession) Close() error {
	return s.CloseFn()
}
