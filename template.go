package siteshape

import "unicode/utf8"

// Template signature defaults.
const (
	// DefaultMaxDepth is the DOM depth below <body> described by a signature.
	DefaultMaxDepth = 4

	// EmptySignature labels the group of pages whose signature is empty.
	EmptySignature = "(empty)"

	// SignaturePreviewLen is the number of characters kept in a preview.
	SignaturePreviewLen = 120
)

// SignatureBuilder reduces a page to a structural fingerprint of its layout.
type SignatureBuilder interface {
	// Signature describes the element skeleton under <body> down to maxDepth:
	// tag names plus the first id token and up to three class tokens.
	// Text and other attributes are ignored. Returns "" when there is no body.
	Signature(html string, maxDepth int) string
}

// PageSignature pairs a page with its template signature.
type PageSignature struct {
	URL       string
	Signature string
}

// TemplateGroup is a set of pages sharing one signature.
type TemplateGroup struct {
	TemplateID       string   `json:"templateId"`
	SignaturePreview string   `json:"signaturePreview"`
	PageCount        int      `json:"pageCount"`
	URLs             []string `json:"urls"`

	// Signature is the full signature. It is not part of the wire format.
	Signature string `json:"-"`
}

// SignaturePreview returns the first SignaturePreviewLen characters of sig,
// with an ellipsis appended when it was truncated.
func SignaturePreview(sig string) string {
	if utf8.RuneCountInString(sig) <= SignaturePreviewLen {
		return sig
	}
	runes := []rune(sig)
	return string(runes[:SignaturePreviewLen]) + "…"
}
