package mock

import "github.com/fwojciec/siteshape"

var _ siteshape.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of siteshape.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}

var _ siteshape.SignatureBuilder = (*SignatureBuilder)(nil)

// SignatureBuilder is a mock implementation of siteshape.SignatureBuilder.
type SignatureBuilder struct {
	SignatureFn func(html string, maxDepth int) string
}

func (b *SignatureBuilder) Signature(html string, maxDepth int) string {
	return b.SignatureFn(html, maxDepth)
}
