package siteshape

// LinkExtractor extracts anchor links from static HTML.
type LinkExtractor interface {
	// ExtractLinks parses html and returns the canonical URL of every
	// http(s) anchor, resolved against baseURL, in document order without
	// duplicates. Origin filtering is left to the caller.
	// Unparsable HTML yields no links rather than an error.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
