// Package goquery implements HTML inspection: anchor link extraction and
// template signatures.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fwojciec/siteshape"
	"github.com/fwojciec/siteshape/whatwg"
)

// Ensure LinkExtractor implements siteshape.LinkExtractor.
var _ siteshape.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts a[href] targets from static HTML.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the canonical URL of every http(s) anchor in html,
// resolved against baseURL, in document order without duplicates.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	if _, err := whatwg.Normalize(baseURL); err != nil {
		return nil, siteshape.Errorf(siteshape.EINVALID, "invalid base URL %q", baseURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		u, ok := whatwg.NormalizeRef(baseURL, href)
		if !ok || seen[u] {
			return
		}
		seen[u] = true
		links = append(links, u)
	})
	return links, nil
}
