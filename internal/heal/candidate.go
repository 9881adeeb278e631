// File: internal/heal/candidate.go
package heal

import (
	"golang.org/x/net/html"

	"github.com/sentinelqa/healix/internal/browser/dom"
)

// Node is the narrow capability surface the scorer and synthesizer need
// from a DOM node abstraction. Anything that cannot satisfy it is skipped
// during scanning rather than special-cased.
type Node interface {
	Tag() string
	Text() string
	Attr(name string) string
}

// Candidate is a transient handle to an element in a parsed page snapshot.
// It is only valid for the snapshot it came from; nothing caches a
// Candidate across navigations.
type Candidate struct {
	node *html.Node
}

// NewCandidate wraps a parsed element node.
func NewCandidate(n *html.Node) Candidate {
	return Candidate{node: n}
}

// Tag returns the lowercase tag name.
func (c Candidate) Tag() string { return dom.Tag(c.node) }

// Text returns the normalized visible text.
func (c Candidate) Text() string { return dom.Text(c.node) }

// Attr returns the named attribute value, or "" when absent.
func (c Candidate) Attr(name string) string { return dom.Attr(c.node, name) }
