// Package crawl implements site discovery and template clustering on top of
// the fetchers, browsers and extractors defined in the root package.
package crawl

import (
	"context"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/whatwg"
)

// Ensure Service implements siteshape.SiteAnalyzer.
var _ siteshape.SiteAnalyzer = (*Service)(nil)

// Service runs the discovery and clustering pipeline.
type Service struct {
	Sitemaps   siteshape.SitemapService
	Fetcher    siteshape.Fetcher
	Links      siteshape.LinkExtractor
	Signatures siteshape.SignatureBuilder

	// Launcher enables rendered-DOM discovery. Nil skips straight to the
	// plain HTTP crawl.
	Launcher siteshape.BrowserLauncher

	// Fallback supplies substitute content for pages that fail to load.
	// Nil behaves as siteshape.NopFallback.
	Fallback siteshape.ContentFallback

	// RateLimiter is optional.
	RateLimiter siteshape.DomainLimiter

	// Concurrency bounds parallel fetches while clustering.
	Concurrency int
}

// DiscoverSiteURLs finds same-origin URLs reachable from req.URL.
//
// Sitemap URLs seed a rendered-DOM crawl. When that crawl fails or finds at
// most one URL, a plain HTTP crawl runs from the rendered and sitemap URLs,
// carrying over the rendered crawl's errors. If nothing is found the result
// is the normalized start URL alone.
func (s *Service) DiscoverSiteURLs(ctx context.Context, req *siteshape.DiscoverRequest) (*siteshape.DiscoverResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, err := whatwg.Normalize(req.URL)
	if err != nil {
		return nil, err
	}
	origin, err := whatwg.Origin(start)
	if err != nil {
		return nil, err
	}
	limit := req.Limit()

	seeds, err := s.Sitemaps.DiscoverSeeds(ctx, origin, limit)
	if err != nil {
		return nil, err
	}

	var rendered *siteshape.CrawlResult
	if s.Launcher != nil {
		crawler := &RenderedCrawler{Launcher: s.Launcher}
		res, err := crawler.Discover(ctx, req.URL, limit, seeds)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err == nil && len(res.URLs) > 1 {
			return newDiscoverResponse(origin, res.URLs, res.Errors, limit), nil
		}
		rendered = res
	}

	var renderedURLs, priorErrors []string
	if rendered != nil {
		renderedURLs, priorErrors = rendered.URLs, rendered.Errors
	}

	crawler := &FetchCrawler{
		Fetcher:        s.Fetcher,
		Links:          s.Links,
		Fallback:       s.fallback(),
		RateLimiter:    s.RateLimiter,
		BootstrapPaths: DefaultBootstrapPaths,
	}
	fetchSeeds := append(append([]string(nil), renderedURLs...), seeds...)
	res, err := crawler.Discover(ctx, req.URL, limit, fetchSeeds, priorErrors)
	if err != nil {
		return nil, err
	}

	urls := res.URLs
	if len(urls) == 0 {
		urls = []string{start}
	}
	return newDiscoverResponse(origin, urls, res.Errors, limit), nil
}

// AnalyseSiteAndGroupByTemplates groups pages by template signature. With
// req.URLs set, those URLs are used after same-origin filtering and
// de-duplication; otherwise the site is crawled over plain HTTP.
func (s *Service) AnalyseSiteAndGroupByTemplates(ctx context.Context, req *siteshape.AnalyseRequest) (*siteshape.AnalyseResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	origin, err := whatwg.Origin(req.URL)
	if err != nil {
		return nil, err
	}

	var (
		urls []string
		errs []string
	)
	if len(req.URLs) > 0 {
		urls = sameOriginUnique(origin, req.URLs)
	} else {
		crawler := &FetchCrawler{
			Fetcher:     s.Fetcher,
			Links:       s.Links,
			Fallback:    s.fallback(),
			RateLimiter: s.RateLimiter,
		}
		res, err := crawler.Discover(ctx, req.URL, req.Limit(), nil, nil)
		if err != nil {
			return nil, err
		}
		urls, errs = res.URLs, res.Errors
	}

	clusterer := &Clusterer{
		Fetcher:     s.Fetcher,
		Fallback:    s.fallback(),
		Signatures:  s.Signatures,
		RateLimiter: s.RateLimiter,
		Concurrency: s.Concurrency,
	}
	clustered, err := clusterer.Cluster(ctx, urls, req.Depth())
	if err != nil {
		return nil, err
	}
	errs = append(errs, clustered.Errors...)

	resp := &siteshape.AnalyseResponse{
		BaseURL:    origin,
		TotalPages: len(urls),
		Templates:  clustered.Templates,
	}
	if len(errs) > 0 {
		resp.Errors = errs
	}
	return resp, nil
}

func (s *Service) fallback() siteshape.ContentFallback {
	if s.Fallback == nil {
		return siteshape.NopFallback{}
	}
	return s.Fallback
}

func newDiscoverResponse(origin string, urls, errs []string, limit int) *siteshape.DiscoverResponse {
	if len(urls) > limit {
		urls = urls[:limit]
	}
	resp := &siteshape.DiscoverResponse{
		URLs:    urls,
		BaseURL: origin,
		Total:   len(urls),
	}
	if len(errs) > 0 {
		resp.Errors = errs
	}
	return resp
}

// sameOriginUnique normalizes urls on origin and drops the rest and any
// repeats, keeping first-seen order.
func sameOriginUnique(origin string, urls []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, u := range urls {
		if !whatwg.SameOrigin(u, origin) {
			continue
		}
		norm, ok := whatwg.NormalizeRef("", u)
		if !ok || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}
