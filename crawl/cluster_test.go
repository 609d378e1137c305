package crawl_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/crawl"
	"github.com/fwojciec/siteshape/goquery"
	"github.com/fwojciec/siteshape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	articleLayout = `<body><header class="site"></header><main><article><h1>%s</h1><p>%s</p></article></main></body>`
	listingLayout = `<body><header class="site"></header><main><ul class="cards"><li>%s</li><li>%s</li></ul></main></body>`
)

func templatedSite() (*fakeSite, []string) {
	pages := map[string]string{
		"https://example.com/news/1": fmt.Sprintf(articleLayout, "One", "first"),
		"https://example.com/shop":   fmt.Sprintf(listingLayout, "a", "b"),
		"https://example.com/news/2": fmt.Sprintf(articleLayout, "Two", "second"),
		"https://example.com/news/3": fmt.Sprintf(articleLayout, "Three", "third"),
		"https://example.com/offers": fmt.Sprintf(listingLayout, "c", "d"),
	}
	urls := []string{
		"https://example.com/news/1",
		"https://example.com/shop",
		"https://example.com/news/2",
		"https://example.com/news/3",
		"https://example.com/offers",
	}
	return newFakeSite(pages), urls
}

func newClusterer(site *fakeSite) *crawl.Clusterer {
	return &crawl.Clusterer{
		Fetcher:    site.Fetcher(),
		Fallback:   siteshape.NopFallback{},
		Signatures: goquery.NewSignatureBuilder(),
	}
}

func TestClusterer_Cluster(t *testing.T) {
	t.Parallel()

	t.Run("groups pages sharing a layout", func(t *testing.T) {
		t.Parallel()

		site, urls := templatedSite()

		res, err := newClusterer(site).Cluster(context.Background(), urls, 4)

		require.NoError(t, err)
		require.Len(t, res.Templates, 2)

		assert.Equal(t, "template_1", res.Templates[0].TemplateID)
		assert.Equal(t, 3, res.Templates[0].PageCount)
		assert.Equal(t, []string{
			"https://example.com/news/1",
			"https://example.com/news/2",
			"https://example.com/news/3",
		}, res.Templates[0].URLs)

		assert.Equal(t, "template_2", res.Templates[1].TemplateID)
		assert.Equal(t, 2, res.Templates[1].PageCount)
		assert.Equal(t, []string{"https://example.com/shop", "https://example.com/offers"}, res.Templates[1].URLs)

		assert.Empty(t, res.Errors)
	})

	t.Run("every page lands in exactly one group", func(t *testing.T) {
		t.Parallel()

		site, urls := templatedSite()

		res, err := newClusterer(site).Cluster(context.Background(), urls, 4)
		require.NoError(t, err)

		count := map[string]int{}
		for _, g := range res.Templates {
			for _, u := range g.URLs {
				count[u]++
			}
		}
		for _, u := range urls {
			assert.Equal(t, 1, count[u], u)
		}
	})

	t.Run("is deterministic across runs and concurrency", func(t *testing.T) {
		t.Parallel()

		site, urls := templatedSite()
		sequential, err := newClusterer(site).Cluster(context.Background(), urls, 4)
		require.NoError(t, err)

		for range 5 {
			site, _ := templatedSite()
			c := newClusterer(site)
			c.Concurrency = 4

			parallel, err := c.Cluster(context.Background(), urls, 4)
			require.NoError(t, err)
			assert.Equal(t, sequential, parallel)
		}
	})

	t.Run("reports pages that fail to load", func(t *testing.T) {
		t.Parallel()

		site, urls := templatedSite()
		urls = append(urls, "https://example.com/missing")

		res, err := newClusterer(site).Cluster(context.Background(), urls, 4)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/missing: HTTP 404"}, res.Errors)
		total := 0
		for _, g := range res.Templates {
			total += g.PageCount
		}
		assert.Equal(t, 5, total)
	})

	t.Run("uses fallback HTML for blocked pages", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]string{})
		site.status["https://example.com/blocked"] = 403

		c := newClusterer(site)
		c.Fallback = fallbackFor(map[string]string{
			"https://example.com/blocked": "<body><main></main></body>",
		})

		res, err := c.Cluster(context.Background(), []string{"https://example.com/blocked"}, 4)

		require.NoError(t, err)
		require.Len(t, res.Templates, 1)
		assert.Equal(t, "main", res.Templates[0].SignaturePreview)
	})

	t.Run("pools empty bodies", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]string{
			"https://example.com/a": "plain text",
			"https://example.com/b": "",
		})

		res, err := newClusterer(site).Cluster(context.Background(),
			[]string{"https://example.com/a", "https://example.com/b"}, 4)

		require.NoError(t, err)
		require.Len(t, res.Templates, 1)
		assert.Equal(t, siteshape.EmptySignature, res.Templates[0].SignaturePreview)
		assert.Equal(t, 2, res.Templates[0].PageCount)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		site, urls := templatedSite()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newClusterer(site).Cluster(ctx, urls, 4)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("passes page html and depth to the signature builder", func(t *testing.T) {
		t.Parallel()

		site, urls := templatedSite()
		var mu sync.Mutex
		depths := map[int]int{}
		clusterer := newClusterer(site)
		clusterer.Signatures = &mock.SignatureBuilder{
			SignatureFn: func(html string, maxDepth int) string {
				mu.Lock()
				depths[maxDepth]++
				mu.Unlock()
				if strings.Contains(html, "<article>") {
					return "article"
				}
				return "listing"
			},
		}

		res, err := clusterer.Cluster(context.Background(), urls, 2)

		require.NoError(t, err)
		require.Len(t, res.Templates, 2)
		assert.Equal(t, "article", res.Templates[0].SignaturePreview)
		assert.Equal(t, "listing", res.Templates[1].SignaturePreview)
		assert.Equal(t, map[int]int{2: 5}, depths)
	})
}

func TestGroupBySignature(t *testing.T) {
	t.Parallel()

	t.Run("numbers groups in first-seen order", func(t *testing.T) {
		t.Parallel()

		groups := crawl.GroupBySignature([]siteshape.PageSignature{
			{URL: "u1", Signature: "b"},
			{URL: "u2", Signature: "a"},
			{URL: "u3", Signature: "b"},
			{URL: "u4", Signature: ""},
		})

		require.Len(t, groups, 3)
		assert.Equal(t, "template_1", groups[0].TemplateID)
		assert.Equal(t, []string{"u1", "u3"}, groups[0].URLs)
		assert.Equal(t, "template_2", groups[1].TemplateID)
		assert.Equal(t, []string{"u2"}, groups[1].URLs)
		assert.Equal(t, "template_3", groups[2].TemplateID)
		assert.Equal(t, siteshape.EmptySignature, groups[2].Signature)
	})

	t.Run("truncates long previews", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("div+", 50)

		groups := crawl.GroupBySignature([]siteshape.PageSignature{{URL: "u", Signature: long}})

		require.Len(t, groups, 1)
		assert.Equal(t, long[:120]+"…", groups[0].SignaturePreview)
		assert.Equal(t, long, groups[0].Signature)
	})

	t.Run("returns empty slice for no pages", func(t *testing.T) {
		t.Parallel()

		groups := crawl.GroupBySignature(nil)

		assert.NotNil(t, groups)
		assert.Empty(t, groups)
	})
}
