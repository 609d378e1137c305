package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/fwojciec/siteshape"
)

// Ensure SignatureBuilder implements siteshape.SignatureBuilder.
var _ siteshape.SignatureBuilder = (*SignatureBuilder)(nil)

// SignatureBuilder builds structural fingerprints of pages.
type SignatureBuilder struct{}

// NewSignatureBuilder creates a new SignatureBuilder.
func NewSignatureBuilder() *SignatureBuilder {
	return &SignatureBuilder{}
}

// Signature describes the elements under <body>. Each element contributes
// its lower-case tag, "#" and its first id token, and "." and up to three
// class tokens. An element's children follow in parentheses while they lie
// within maxDepth; siblings are joined with "+". The body's children are at
// depth 0. maxDepth <= 0 selects siteshape.DefaultMaxDepth.
func (b *SignatureBuilder) Signature(src string, maxDepth int) string {
	if maxDepth <= 0 {
		maxDepth = siteshape.DefaultMaxDepth
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		// The parser refuses documents nested deeper than its open element
		// limit. Everything that deep is past any useful cutoff.
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(prune(src, pruneDepth)))
		if err != nil {
			return ""
		}
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	return skeleton(body.Nodes[0], maxDepth)
}

// pruneDepth bounds element nesting when a document has to be re-parsed.
const pruneDepth = 256

// prune drops every element opened deeper than limit, along with its
// content. Depth is counted on raw tags, so it never undercounts the
// parser's open element stack.
func prune(src string, limit int) string {
	z := html.NewTokenizer(strings.NewReader(src))
	var b bytes.Buffer
	depth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if voidElements[string(name)] {
				if depth < limit {
					b.Write(z.Raw())
				}
				continue
			}
			depth++
			if depth <= limit {
				b.Write(z.Raw())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if depth <= limit {
				b.Write(z.Raw())
			}
			if !voidElements[string(name)] && depth > 0 {
				depth--
			}
		default:
			if depth < limit {
				b.Write(z.Raw())
			}
		}
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// frame is one open element on the traversal stack.
type frame struct {
	key   string     // token of the element whose children are listed
	next  *html.Node // next child to visit
	depth int        // depth of the children
	parts []string
}

// skeleton walks root's element descendants with an explicit stack so that
// deeply nested markup cannot exhaust the goroutine stack.
func skeleton(root *html.Node, maxDepth int) string {
	stack := []*frame{{next: root.FirstChild}}

	for {
		top := stack[len(stack)-1]
		for top.next != nil && top.next.Type != html.ElementNode {
			top.next = top.next.NextSibling
		}

		if top.next == nil {
			stack = stack[:len(stack)-1]
			joined := strings.Join(top.parts, "+")
			if len(stack) == 0 {
				return joined
			}
			tok := top.key
			if joined != "" {
				tok += "(" + joined + ")"
			}
			parent := stack[len(stack)-1]
			parent.parts = append(parent.parts, tok)
			continue
		}

		el := top.next
		top.next = el.NextSibling
		key := token(el)

		if top.depth+1 > maxDepth {
			top.parts = append(top.parts, key)
			continue
		}
		stack = append(stack, &frame{key: key, next: el.FirstChild, depth: top.depth + 1})
	}
}

func token(n *html.Node) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(n.Data))

	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "id" {
			continue
		}
		if fields := strings.Fields(attr.Val); len(fields) > 0 {
			b.WriteString("#")
			b.WriteString(fields[0])
		}
		break
	}

	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "class" {
			continue
		}
		fields := strings.Fields(attr.Val)
		if len(fields) > 3 {
			fields = fields[:3]
		}
		if len(fields) > 0 {
			b.WriteString(".")
			b.WriteString(strings.Join(fields, "."))
		}
		break
	}

	return b.String()
}
