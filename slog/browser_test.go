package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/mock"
	shapeslog "github.com/fwojciec/siteshape/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBrowserLauncher(t *testing.T) {
	t.Parallel()

	t.Run("wraps session and logs rendered pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var closed bool
		inner := &mock.BrowserLauncher{
			LaunchFn: func(ctx context.Context) (siteshape.BrowserSession, error) {
				return &mock.BrowserSession{
					LinksFn: func(ctx context.Context, url string) ([]string, error) {
						return []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}, nil
					},
					CloseFn: func() error {
						closed = true
						return nil
					},
				}, nil
			},
		}

		l := shapeslog.NewLoggingBrowserLauncher(inner, logger)
		session, err := l.Launch(context.Background())
		require.NoError(t, err)

		links, err := session.Links(context.Background(), "https://example.com")
		require.NoError(t, err)
		require.NoError(t, session.Close())

		assert.Len(t, links, 3)
		assert.True(t, closed)
		output := buf.String()
		assert.Contains(t, output, "browser launch")
		assert.Contains(t, output, "msg=render")
		assert.Contains(t, output, "url=https://example.com")
		assert.Contains(t, output, "links=3")
	})

	t.Run("logs launch failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.BrowserLauncher{
			LaunchFn: func(ctx context.Context) (siteshape.BrowserSession, error) {
				return nil, errors.New("no chrome")
			},
		}

		l := shapeslog.NewLoggingBrowserLauncher(inner, logger)
		session, err := l.Launch(context.Background())

		require.Error(t, err)
		assert.Nil(t, session)
		assert.Contains(t, buf.String(), "err=\"no chrome\"")
	})

	t.Run("logs close failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.BrowserLauncher{
			LaunchFn: func(ctx context.Context) (siteshape.BrowserSession, error) {
				return &mock.BrowserSession{
					CloseFn: func() error { return errors.New("already gone") },
				}, nil
			},
		}

		l := shapeslog.NewLoggingBrowserLauncher(inner, logger)
		session, err := l.Launch(context.Background())
		require.NoError(t, err)

		require.Error(t, session.Close())
		output := buf.String()
		assert.Contains(t, output, "browser close")
		assert.Contains(t, output, "err=\"already gone\"")
	})
}
