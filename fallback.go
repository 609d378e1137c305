package siteshape

import (
	"context"
	"strings"
)

// ContentFallback retrieves a substitute copy of a page whose direct fetch
// failed, e.g. a cached or indexed copy obtained through a third-party tool.
type ContentFallback interface {
	// Retrieve returns substitute text for url. It never fails: any problem,
	// including an unconfigured backend, yields ok == false.
	Retrieve(ctx context.Context, url string) (text string, ok bool)
}

// Ensure NopFallback implements ContentFallback.
var _ ContentFallback = NopFallback{}

// NopFallback is the unconfigured fallback. Every call returns immediately.
type NopFallback struct{}

// Retrieve always reports no content.
func (NopFallback) Retrieve(context.Context, string) (string, bool) {
	return "", false
}

// LooksLikeHTML reports whether substitute text is HTML-shaped enough to
// parse for links.
func LooksLikeHTML(text string) bool {
	return strings.Contains(text, "<")
}

// FallbackResult is the result of a retrieval tool call.
// It is one of PlainText, WrappedContent or ContentArray.
type FallbackResult interface {
	fallbackResult()
}

// PlainText is a result that is the text itself.
type PlainText string

// WrappedContent is an object carrying the text in a content or text field.
type WrappedContent struct {
	Content string
	Text    string
}

// ContentArray is a list of content parts.
type ContentArray []ContentPart

// ContentPart is one element of a ContentArray.
type ContentPart struct {
	Type string
	Text string
}

func (PlainText) fallbackResult()      {}
func (WrappedContent) fallbackResult() {}
func (ContentArray) fallbackResult()   {}

// ExtractText returns the text carried by a retrieval result.
// WrappedContent prefers Content over Text; ContentArray yields its first
// part with text.
func ExtractText(r FallbackResult) (string, bool) {
	switch r := r.(type) {
	case PlainText:
		return string(r), r != ""
	case WrappedContent:
		return extractWrapped(r)
	case ContentArray:
		return extractArray(r)
	}
	return "", false
}

func extractWrapped(r WrappedContent) (string, bool) {
	if r.Content != "" {
		return r.Content, true
	}
	if r.Text != "" {
		return r.Text, true
	}
	return "", false
}

func extractArray(r ContentArray) (string, bool) {
	for _, part := range r {
		if part.Text != "" {
			return part.Text, true
		}
	}
	return "", false
}
