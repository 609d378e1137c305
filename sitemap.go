package siteshape

import "context"

// SitemapService harvests page URLs from a site's sitemaps.
type SitemapService interface {
	// DiscoverSeeds reads robots.txt for Sitemap hints, then walks the hinted
	// and well-known sitemap documents breadth-first, resolving sitemap
	// indexes. It returns at most limit same-origin canonical URLs.
	//
	// Fetch and parse failures are swallowed; the result degrades to an
	// empty list. An error is returned only when ctx is done.
	DiscoverSeeds(ctx context.Context, origin string, limit int) ([]string, error)
}

// DefaultSitemapPaths are probed on every origin in addition to the
// sitemaps listed in robots.txt.
var DefaultSitemapPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
}
