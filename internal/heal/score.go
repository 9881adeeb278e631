// File: internal/heal/score.go
package heal

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/sentinelqa/healix/internal/config"
)

// Scorer ranks DOM nodes by textual similarity to a reference name. The
// score is a weighted sum of per-attribute similarity ratios; it is not
// normalized, so only relative ordering within a single scan means
// anything.
type Scorer struct {
	weights config.ScoreWeights
}

// NewScorer builds a scorer with the given attribute weights.
func NewScorer(weights config.ScoreWeights) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes the aggregate similarity between a node and a reference
// name. A missing attribute contributes zero, never a penalty. The weights
// encode attribute reliability: id is the strongest uniqueness signal,
// text and value are medium, class and name weaker.
func (s *Scorer) Score(n Node, reference string) float64 {
	var total float64
	total += similarity(n.Text(), reference) * s.weights.Text
	total += similarity(n.Attr("id"), reference) * s.weights.ID
	total += similarity(n.Attr("class"), reference) * s.weights.Class
	total += similarity(n.Attr("name"), reference) * s.weights.Name
	total += similarity(n.Attr("value"), reference) * s.weights.Value
	return total
}

// similarity is a normalized, case-insensitive edit-distance ratio in
// [0, 1]. An empty attribute scores zero regardless of the reference.
func similarity(attr, reference string) float64 {
	if attr == "" || reference == "" {
		return 0
	}
	a := strings.ToLower(attr)
	b := strings.ToLower(reference)
	if a == b {
		return 1
	}

	longest := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > longest {
		longest = l
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}
