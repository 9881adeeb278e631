// File: internal/heal/synthesize.go
package heal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sentinelqa/healix/internal/browser/dom"
)

// Synthesizer converts a winning DOM node back into a durable locator
// string. The priority order (id, then short text, then class, then
// position) is a reliability ranking that callers substituting their own
// synthesizer must preserve.
type Synthesizer struct {
	shortTextMax int
}

// NewSynthesizer builds a synthesizer. shortTextMax bounds the length of
// text worth anchoring on; longer text blocks are too volatile.
func NewSynthesizer(shortTextMax int) *Synthesizer {
	if shortTextMax <= 0 {
		shortTextMax = 40
	}
	return &Synthesizer{shortTextMax: shortTextMax}
}

// Build generates a locator for the node. Deterministic: the same
// attributes always yield the same locator.
func (s *Synthesizer) Build(n Node) string {
	// Ids are assumed unique, which makes them the strongest selector
	// we can generate.
	if id := n.Attr("id"); id != "" {
		return fmt.Sprintf("//*[@id=%s]", dom.Literal(id))
	}

	tag := n.Tag()

	// Short text anchors well; long text blocks change too often.
	if text := strings.TrimSpace(n.Text()); text != "" && utf8.RuneCountInString(text) < s.shortTextMax {
		return fmt.Sprintf("//%s[contains(normalize-space(), %s)]", tag, dom.Literal(text))
	}

	// The first class token is the best proxy for a semantically stable
	// class in frameworks that append utility classes after it.
	if class := n.Attr("class"); class != "" {
		if fields := strings.Fields(class); len(fields) > 0 {
			return fmt.Sprintf("//%s[contains(@class, %s)]", tag, dom.Literal(fields[0]))
		}
	}

	// Last resort: first node of that tag in document order. Fragile,
	// but at least it returns something so the flow keeps moving.
	return fmt.Sprintf("(//%s)[1]", tag)
}
