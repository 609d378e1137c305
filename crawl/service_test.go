package crawl_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/crawl"
	"github.com/fwojciec/siteshape/goquery"
	"github.com/fwojciec/siteshape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sitemapWith(urls ...string) *mock.SitemapService {
	return &mock.SitemapService{
		DiscoverSeedsFn: func(context.Context, string, int) ([]string, error) {
			return urls, nil
		},
	}
}

func newService(site *fakeSite) *crawl.Service {
	return &crawl.Service{
		Sitemaps:   sitemapWith(),
		Fetcher:    site.Fetcher(),
		Links:      goquery.NewLinkExtractor(),
		Signatures: goquery.NewSignatureBuilder(),
	}
}

func TestService_DiscoverSiteURLs(t *testing.T) {
	t.Parallel()

	t.Run("uses rendered result when it finds more than one URL", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(nil)
		browser := &fakeBrowser{links: map[string][]string{
			"https://example.com": {"https://example.com/app/dashboard"},
		}}

		svc := newService(site)
		svc.Launcher = browser.Launcher()

		resp, err := svc.DiscoverSiteURLs(context.Background(), &siteshape.DiscoverRequest{URL: "https://example.com/"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.com/app/dashboard"}, resp.URLs)
		assert.Equal(t, "https://example.com", resp.BaseURL)
		assert.Equal(t, 2, resp.Total)
		assert.Empty(t, site.Fetched(), "plain HTTP crawl should not run")
	})

	t.Run("seeds rendered crawl with sitemap URLs", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{links: map[string][]string{}}

		svc := newService(newFakeSite(nil))
		svc.Launcher = browser.Launcher()
		svc.Sitemaps = sitemapWith("https://example.com/from-sitemap")

		resp, err := svc.DiscoverSiteURLs(context.Background(), &siteshape.DiscoverRequest{URL: "https://example.com"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.com/from-sitemap"}, browser.visited)
		assert.Equal(t, []string{"https://example.com", "https://example.com/from-sitemap"}, resp.URLs)
	})

	t.Run("falls back to plain HTTP when rendering finds one URL", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]string{
			"https://example.com":       `<a href="/about">About</a>`,
			"https://example.com/about": `<p></p>`,
		})
		browser := &fakeBrowser{
			errs: map[string]error{"https://example.com": fmt.Errorf("net::ERR_TIMED_OUT")},
		}

		svc := newService(site)
		svc.Launcher = browser.Launcher()

		resp, err := svc.DiscoverSiteURLs(context.Background(), &siteshape.DiscoverRequest{URL: "https://example.com"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.com/about"}, resp.URLs)
		require.NotEmpty(t, resp.Errors)
		assert.Equal(t, "https://example.com: net::ERR_TIMED_OUT", resp.Errors[0])
	})

	t.Run("falls back to plain HTTP when the browser cannot launch", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite(map[string]string{
			"https://example.com":   `<a href="/a">A</a>`,
			"https://example.com/a": `<p></p>`,
		})

		svc := newService(site)
		svc.Launcher = &mock.BrowserLauncher{
			LaunchFn: func(context.Context) (siteshape.BrowserSession, error) {
				return nil, siteshape.Errorf(siteshape.ESESSION, "chrome not found")
			},
		}
		svc.Sitemaps = sitemapWith("https://example.com/a")

		resp, err := svc.DiscoverSiteURLs(context.Background(), &siteshape.DiscoverRequest{URL: "https://example.com"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com", "https://example.com/a"}, resp.URLs)
		assert.Nil(t, resp.Errors)
	})

	t.Run("degrades to the start URL when nothing loads", func(t *testing.T) {
		t.Parallel()

		svc := newService(newFakeSite(nil))

		resp, err := svc.DiscoverSiteURLs(context.Background(), &siteshape.DiscoverRequest{URL: "https://example.com/home/"})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/home"}, resp.URLs)
		assert.Equal(t, 1, resp.Total)
		assert.NotEmpty(t, resp.Errors)
		assert.Contains(t, resp.Errors[0], "HTTP 404")
	})

	t.Run("truncates to maxUrls", func(t *testing.T) {
		t.Parallel()

		browser := &fakeBrowser{links: map[string][]string{
			"https://example.com": {
				"https://example.com/1",
				"https://example.com/2",
				"https://example.com/3",
			},
		}}

		svc := newService(newFakeSite(nil))
		svc.Launcher = browser.Launcher()

		resp, err := svc.DiscoverSiteURLs(context.Background(), &siteshape.DiscoverRequest{URL: "https://example.com", MaxURLs: 2})

		require.NoError(t, err)
		assert.Len(t, resp.URLs, 2)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		t.Parallel()

		svc := newService(newFakeSite(nil))

		_, err := svc.DiscoverSiteURLs(context.Background(), &siteshape.DiscoverRequest{URL: "example.com"})

		assert.Equal(t, siteshape.EINVALID, siteshape.ErrorCode(err))
	})
}

func TestService_AnalyseSiteAndGroupByTemplates(t *testing.T) {
	t.Parallel()

	t.Run("uses supplied URLs without crawling", func(t *testing.T) {
		t.Parallel()

		site, _ := templatedSite()
		svc := newService(site)
		svc.Links = &mock.LinkExtractor{
			ExtractLinksFn: func(string, string) ([]string, error) {
				t.Fatal("links must not be extracted when URLs are supplied")
				return nil, nil
			},
		}

		resp, err := svc.AnalyseSiteAndGroupByTemplates(context.Background(), &siteshape.AnalyseRequest{
			URL: "https://example.com",
			URLs: []string{
				"https://example.com/news/1/",
				"https://example.com/news/1?page=2",
				"https://other.example/news/1",
				"https://example.com/shop",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", resp.BaseURL)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, []string{"https://example.com/news/1", "https://example.com/shop"}, site.Fetched())
		require.Len(t, resp.Templates, 2)
		assert.Nil(t, resp.Errors)
	})

	t.Run("crawls when no URLs are supplied", func(t *testing.T) {
		t.Parallel()

		site, _ := templatedSite()
		site.pages["https://example.com"] = fmt.Sprintf(listingLayout,
			`<a href="/news/1">1</a>`, `<a href="/news/2">2</a>`)

		svc := newService(site)

		resp, err := svc.AnalyseSiteAndGroupByTemplates(context.Background(), &siteshape.AnalyseRequest{
			URL: "https://example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalPages)
		require.Len(t, resp.Templates, 2)
		assert.Equal(t, []string{"https://example.com"}, resp.Templates[0].URLs)
		assert.Equal(t, []string{"https://example.com/news/1", "https://example.com/news/2"}, resp.Templates[1].URLs)
	})

	t.Run("caps crawl at maxUrls", func(t *testing.T) {
		t.Parallel()

		site, _ := templatedSite()
		site.pages["https://example.com"] = `<a href="/news/1">1</a><a href="/news/2">2</a><a href="/news/3">3</a>`

		svc := newService(site)

		resp, err := svc.AnalyseSiteAndGroupByTemplates(context.Background(), &siteshape.AnalyseRequest{
			URL:     "https://example.com",
			MaxURLs: 2,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.TotalPages)
	})

	t.Run("reports pages that fail to load", func(t *testing.T) {
		t.Parallel()

		site, _ := templatedSite()
		svc := newService(site)

		resp, err := svc.AnalyseSiteAndGroupByTemplates(context.Background(), &siteshape.AnalyseRequest{
			URL:  "https://example.com",
			URLs: []string{"https://example.com/news/1", "https://example.com/gone"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, []string{"https://example.com/gone: HTTP 404"}, resp.Errors)
	})

	t.Run("rejects depth out of range", func(t *testing.T) {
		t.Parallel()

		svc := newService(newFakeSite(nil))

		_, err := svc.AnalyseSiteAndGroupByTemplates(context.Background(), &siteshape.AnalyseRequest{
			URL:      "https://example.com",
			MaxDepth: 9,
		})

		assert.Equal(t, siteshape.EINVALID, siteshape.ErrorCode(err))
	})
}
