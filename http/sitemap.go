package http

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/temoto/robotstxt"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/whatwg"
)

// Ensure SitemapService implements siteshape.SitemapService.
var _ siteshape.SitemapService = (*SitemapService)(nil)

// SitemapService harvests page URLs from robots.txt sitemap hints and the
// well-known sitemap locations.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService.
func NewSitemapService(opts ...Option) *SitemapService {
	o := buildOptions(opts)
	return &SitemapService{client: o.client}
}

// DiscoverSeeds walks the origin's sitemaps breadth-first and returns up to
// limit same-origin canonical page URLs. Unreachable or malformed sitemaps
// are skipped.
func (s *SitemapService) DiscoverSeeds(ctx context.Context, origin string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin, err := whatwg.Origin(origin)
	if err != nil {
		return nil, err
	}

	queue := s.robotsSitemaps(ctx, origin)
	for _, p := range siteshape.DefaultSitemapPaths {
		queue = append(queue, whatwg.Join(origin, p))
	}

	tried := make(map[string]bool)
	seen := make(map[string]bool)
	urls := []string{}

	for len(queue) > 0 && len(urls) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sitemapURL := queue[0]
		queue = queue[1:]
		if tried[sitemapURL] {
			continue
		}
		tried[sitemapURL] = true

		doc := s.fetchSitemap(ctx, sitemapURL)
		if doc == nil {
			continue
		}

		for _, loc := range doc.FindElements("//url/loc") {
			u := strings.TrimSpace(loc.Text())
			if !whatwg.SameOrigin(u, origin) {
				continue
			}
			norm, ok := whatwg.NormalizeRef("", u)
			if !ok || seen[norm] {
				continue
			}
			seen[norm] = true
			urls = append(urls, norm)
		}
		for _, loc := range doc.FindElements("//sitemap/loc") {
			u := strings.TrimSpace(loc.Text())
			if u != "" && !tried[u] {
				queue = append(queue, u)
			}
		}
	}

	if len(urls) > limit {
		urls = urls[:limit]
	}
	return urls, nil
}

// robotsSitemaps returns the same-origin Sitemap hints from robots.txt.
func (s *SitemapService) robotsSitemaps(ctx context.Context, origin string) []string {
	body, ok := s.fetchBody(ctx, whatwg.Join(origin, "/robots.txt"))
	if !ok {
		return nil
	}

	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}

	var hints []string
	for _, u := range robots.Sitemaps {
		u = strings.TrimSpace(u)
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		if whatwg.SameOrigin(u, origin) {
			hints = append(hints, u)
		}
	}
	return hints
}

func (s *SitemapService) fetchSitemap(ctx context.Context, url string) *etree.Document {
	body, ok := s.fetchBody(ctx, url)
	if !ok {
		return nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil
	}
	if doc.Root() == nil {
		return nil
	}
	return doc
}

// fetchBody returns the body of a 2xx response. Any failure yields ok false.
func (s *SitemapService) fetchBody(ctx context.Context, url string) ([]byte, bool) {
	resp, err := get(ctx, s.client, url)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, false
	}
	return body, true
}
