// Package whatwg canonicalises page URLs using the WHATWG URL standard, the
// same resolution rules a browser applies to an anchor's href.
package whatwg

import (
	"net/url"
	"regexp"
	"strings"

	whatwgurl "github.com/nlnwa/whatwg-url/url"

	"github.com/fwojciec/siteshape"
)

var parser = whatwgurl.NewParser(whatwgurl.WithPercentEncodeSinglePercentSign())

var repeatedSlashes = regexp.MustCompile(`/+`)

// NormalizeRef resolves href against base and returns its canonical form:
// scheme://host[:port] followed by the path with repeated slashes collapsed
// and any trailing slash removed. Query and fragment are dropped.
//
// ok is false for empty hrefs, fragment-only hrefs, javascript: and mailto:
// links, unparseable input and non-http(s) results. An empty base treats
// href as absolute.
func NormalizeRef(base, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if rejectHref(href) {
		return "", false
	}

	var (
		u   *whatwgurl.Url
		err error
	)
	if base == "" {
		u, err = parser.Parse(href)
	} else {
		u, err = parser.ParseRef(base, href)
	}
	if err != nil {
		return "", false
	}

	parsed, err := url.Parse(u.Href(true))
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host == "" {
		return "", false
	}

	path := repeatedSlashes.ReplaceAllString(parsed.EscapedPath(), "/")
	path = strings.TrimSuffix(path, "/")
	return parsed.Scheme + "://" + parsed.Host + path, true
}

// Normalize returns the canonical form of an absolute URL.
func Normalize(raw string) (string, error) {
	s, ok := NormalizeRef("", raw)
	if !ok {
		return "", siteshape.Errorf(siteshape.EINVALID, "invalid url %q", raw)
	}
	return s, nil
}

// Origin returns scheme://host[:port] of an absolute URL.
func Origin(raw string) (string, error) {
	s, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", siteshape.Errorf(siteshape.EINVALID, "invalid url %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

// SameOrigin reports whether two URLs share scheme, host and port.
// Unparseable URLs never match.
func SameOrigin(a, b string) bool {
	oa, err := Origin(a)
	if err != nil {
		return false
	}
	ob, err := Origin(b)
	if err != nil {
		return false
	}
	return oa == ob
}

// Join appends an absolute path to an origin.
func Join(origin, path string) string {
	return strings.TrimSuffix(origin, "/") + "/" + strings.TrimPrefix(path, "/")
}

func rejectHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	return strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:")
}
