package crawl

import (
	"context"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/whatwg"
)

// RenderedCrawler discovers same-origin pages from the live DOM of a
// headless browser, so links inserted by client-side scripts are found.
type RenderedCrawler struct {
	Launcher siteshape.BrowserLauncher
}

// Discover renders pages breadth-first from startURL and seeds until the
// queue drains or limit pages have been visited.
//
// Per-page failures are recorded as "<url>: <reason>" and the crawl goes on.
// A failure with code ESESSION ends the crawl; the partial result is returned
// together with that error. The session is closed on every path.
func (c *RenderedCrawler) Discover(ctx context.Context, startURL string, limit int, seeds []string) (*siteshape.CrawlResult, error) {
	start, err := whatwg.Normalize(startURL)
	if err != nil {
		return nil, err
	}
	origin, err := whatwg.Origin(start)
	if err != nil {
		return nil, err
	}

	session, err := c.Launcher.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = session.Close() }()

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(start)
	pushSameOrigin(frontier, origin, seeds)

	var errs []string
	result := func() *siteshape.CrawlResult {
		urls := frontier.Discovered()
		if len(urls) > limit {
			urls = urls[:limit]
		}
		return &siteshape.CrawlResult{URLs: urls, Errors: errs}
	}

	for frontier.Len() > 0 && frontier.Visited() < limit {
		if err := ctx.Err(); err != nil {
			return result(), err
		}

		current, _ := frontier.Pop()
		hrefs, err := session.Links(ctx, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result(), ctxErr
			}
			errs = append(errs, current+": "+errorReason(err))
			if siteshape.ErrorCode(err) == siteshape.ESESSION {
				return result(), err
			}
			continue
		}
		pushSameOrigin(frontier, origin, hrefs)
	}

	return result(), nil
}
