package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/siteshape"
	main "github.com/fwojciec/siteshape/cmd/siteshape"
	"github.com/fwojciec/siteshape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints urls and reports errors on stderr", func(t *testing.T) {
		t.Parallel()

		var got *siteshape.DiscoverRequest
		analyzer := &mock.SiteAnalyzer{
			DiscoverSiteURLsFn: func(_ context.Context, req *siteshape.DiscoverRequest) (*siteshape.DiscoverResponse, error) {
				got = req
				return &siteshape.DiscoverResponse{
					URLs:    []string{"https://example.com", "https://example.com/a"},
					BaseURL: "https://example.com",
					Total:   2,
					Errors:  []string{"https://example.com/b: HTTP 404"},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Analyzer: analyzer}

		cmd := &main.DiscoverCmd{URL: "https://example.com", MaxURLs: 50}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com\nhttps://example.com/a\n", stdout.String())
		assert.Contains(t, stderr.String(), "skip https://example.com/b: HTTP 404")
		assert.Equal(t, 50, got.MaxURLs)
	})

	t.Run("prints json", func(t *testing.T) {
		t.Parallel()

		analyzer := &mock.SiteAnalyzer{
			DiscoverSiteURLsFn: func(_ context.Context, _ *siteshape.DiscoverRequest) (*siteshape.DiscoverResponse, error) {
				return &siteshape.DiscoverResponse{
					URLs:    []string{"https://example.com"},
					BaseURL: "https://example.com",
					Total:   1,
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Analyzer: analyzer}

		cmd := &main.DiscoverCmd{URL: "https://example.com", JSON: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		var resp siteshape.DiscoverResponse
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, "https://example.com", resp.BaseURL)
	})

	t.Run("prints validation message", func(t *testing.T) {
		t.Parallel()

		analyzer := &mock.SiteAnalyzer{
			DiscoverSiteURLsFn: func(_ context.Context, _ *siteshape.DiscoverRequest) (*siteshape.DiscoverResponse, error) {
				return nil, siteshape.Errorf(siteshape.EINVALID, "maxUrls must be between 1 and 500")
			},
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Analyzer: analyzer}

		cmd := &main.DiscoverCmd{URL: "https://example.com", MaxURLs: 900}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: maxUrls must be between 1 and 500\n", stderr.String())
	})
}
