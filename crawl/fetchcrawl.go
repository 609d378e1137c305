package crawl

import (
	"context"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/whatwg"
)

// DefaultBootstrapPaths are guessed when a crawl would otherwise start from
// a single URL, so one unreachable home page does not end discovery.
var DefaultBootstrapPaths = []string{
	"/about",
	"/about-us",
	"/contact",
	"/our-business",
	"/investors",
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
}

// FetchCrawler discovers same-origin pages by following links in static
// HTML. Pages are fetched one at a time in strict FIFO order.
type FetchCrawler struct {
	Fetcher     siteshape.Fetcher
	Links       siteshape.LinkExtractor
	Fallback    siteshape.ContentFallback
	RateLimiter siteshape.DomainLimiter

	// BootstrapPaths are queued when at most one URL is queued after
	// seeding. Nil disables bootstrapping.
	BootstrapPaths []string
}

// Discover crawls from startURL until the queue drains or limit pages have
// been visited. Seeds outside the start URL's origin are ignored.
//
// The result lists the pages that loaded, directly or through the fallback,
// in visit order. priorErrors are carried ahead of this crawl's errors.
// Only context cancellation is returned as an error.
func (c *FetchCrawler) Discover(ctx context.Context, startURL string, limit int, seeds []string, priorErrors []string) (*siteshape.CrawlResult, error) {
	start, err := whatwg.Normalize(startURL)
	if err != nil {
		return nil, err
	}
	origin, err := whatwg.Origin(start)
	if err != nil {
		return nil, err
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(start)
	pushSameOrigin(frontier, origin, seeds)

	if frontier.Len() <= 1 {
		for _, p := range c.BootstrapPaths {
			if u, ok := whatwg.NormalizeRef(origin, p); ok {
				frontier.Push(u)
			}
		}
	}

	loader := &pageLoader{fetcher: c.Fetcher, fallback: c.Fallback, limiter: c.RateLimiter}
	result := &siteshape.CrawlResult{
		URLs:   []string{},
		Errors: append([]string(nil), priorErrors...),
	}

	for frontier.Len() > 0 && frontier.Visited() < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, _ := frontier.Pop()
		visit := loader.load(ctx, current)

		if visit.state == stateExcluded {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result.Errors = append(result.Errors, visit.failure())
			continue
		}

		result.URLs = append(result.URLs, current)
		links, err := c.Links.ExtractLinks(visit.html, visit.base)
		if err != nil {
			continue
		}
		pushSameOrigin(frontier, origin, links)
	}

	return result, nil
}

// pushSameOrigin queues the canonical form of every url on origin.
func pushSameOrigin(f siteshape.URLFrontier, origin string, urls []string) {
	for _, u := range urls {
		if !whatwg.SameOrigin(u, origin) {
			continue
		}
		if norm, ok := whatwg.NormalizeRef("", u); ok {
			f.Push(norm)
		}
	}
}
