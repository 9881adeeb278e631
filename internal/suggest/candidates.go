// File: internal/suggest/candidates.go
package suggest

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/sentinelqa/healix/api/schemas"
	"github.com/sentinelqa/healix/internal/browser/dom"
)

// inspectedAttributes are the attributes that hint at what an element
// represents; they go into the candidate summaries verbatim.
var inspectedAttributes = []string{
	"id",
	"name",
	"value",
	"type",
	"class",
	"aria-label",
	"aria-labelledby",
	"role",
	"data-testid",
	"data-test",
	"data-qa",
	"placeholder",
	"title",
}

// interactiveXPath roughly targets interactive controls so the prompt is
// not the entire DOM.
const interactiveXPath = "//button|//a|//input|//select|//textarea" +
	"|//*[@role='button']|//*[@type='button']|//*[@type='submit']" +
	"|//*[contains(translate(@class," +
	"'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz'),'button')]"

const (
	textPreviewChars = 160
	htmlPreviewChars = 280
)

// CollectCandidates summarizes up to max interactive controls from the
// snapshot. Controls whose text or attributes contain the reference (case
// insensitive) are preferred; when nothing matches, the first batch of
// controls is returned so the model still has context to reason with.
func CollectCandidates(doc *html.Node, reference string, max int) []schemas.CandidateSummary {
	if max <= 0 {
		return nil
	}

	nodes, err := htmlquery.QueryAll(doc, interactiveXPath)
	if err != nil || len(nodes) == 0 {
		return nil
	}

	refLower := strings.ToLower(reference)
	matched := make([]schemas.CandidateSummary, 0, max)

	for _, n := range nodes {
		summary := summarizeNode(n)
		if candidateMatches(summary, refLower) {
			matched = append(matched, summary)
		}
		if len(matched) >= max {
			return matched
		}
	}
	if len(matched) > 0 {
		return matched
	}

	// No substring hits; fall back to the first batch.
	limit := max
	if len(nodes) < limit {
		limit = len(nodes)
	}
	out := make([]schemas.CandidateSummary, 0, limit)
	for _, n := range nodes[:limit] {
		out = append(out, summarizeNode(n))
	}
	return out
}

// summarizeNode extracts a compact description of one element, including a
// unique XPath valid within the snapshot.
func summarizeNode(n *html.Node) schemas.CandidateSummary {
	summary := schemas.CandidateSummary{
		Tag:   dom.Tag(n),
		XPath: dom.UniqueXPath(n),
	}

	if text := dom.Text(n); text != "" {
		summary.Text = truncate(text, textPreviewChars)
	}

	attrs := make(map[string]string)
	for _, name := range inspectedAttributes {
		if v := strings.TrimSpace(dom.Attr(n, name)); v != "" {
			attrs[name] = v
		}
	}
	if len(attrs) > 0 {
		summary.Attributes = attrs
	}

	summary.OuterHTMLPreview = dom.OuterHTML(n, htmlPreviewChars)
	return summary
}

// candidateMatches reports whether the reference appears anywhere in the
// candidate's text or attribute values.
func candidateMatches(c schemas.CandidateSummary, refLower string) bool {
	if refLower == "" {
		return false
	}
	if strings.Contains(strings.ToLower(c.Text), refLower) {
		return true
	}
	for _, v := range c.Attributes {
		if strings.Contains(strings.ToLower(v), refLower) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
