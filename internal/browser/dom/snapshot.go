// browser/dom/snapshot.go
package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Parse turns a serialized HTML snapshot into a document tree.
func Parse(snapshot string) (*html.Node, error) {
	return htmlquery.Parse(strings.NewReader(snapshot))
}

// Elements enumerates every element node in the document, in document
// order. Script and style bodies contribute no elements of interest but
// their tags are still listed; filtering is the caller's concern.
func Elements(doc *html.Node) []*html.Node {
	nodes, err := htmlquery.QueryAll(doc, "//*")
	if err != nil {
		// The expression is constant and valid; QueryAll cannot fail on it.
		return nil
	}
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}

// Tag returns the lowercase tag name of an element node.
func Tag(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// Attr returns the value of the named attribute, or "" when absent.
func Attr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	return htmlquery.SelectAttr(n, name)
}

// Text returns the whitespace-normalized text content of a node and its
// descendants. Script and style subtrees are excluded; they are never
// "visible text".
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	collectText(n, &sb)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if tag == "script" || tag == "style" || tag == "noscript" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// OuterHTML renders a node back to HTML, truncated to maxChars. Used for
// candidate previews, so a render failure just yields "".
func OuterHTML(n *html.Node, maxChars int) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	s := sb.String()
	if maxChars > 0 && len(s) > maxChars {
		return s[:maxChars]
	}
	return s
}
