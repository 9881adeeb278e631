// File: internal/heal/scanner.go
package heal

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/sentinelqa/healix/internal/browser/dom"
)

// Scanner performs the full-page "best match" search. It is deliberately
// the most expensive strategy and runs only after the cheaper, known-good
// ones are exhausted.
type Scanner struct {
	scorer *Scorer
	log    *zap.Logger
}

// NewScanner builds a scanner on top of the given scorer.
func NewScanner(scorer *Scorer, logger *zap.Logger) *Scanner {
	return &Scanner{
		scorer: scorer,
		log:    logger.Named("scanner"),
	}
}

// BestMatch scores every element in the snapshot against the reference and
// returns the single highest-scoring candidate. Ties break toward the
// first-seen element. ok is false when the page yields no elements or
// nothing scores above zero; the caller decides whether that is fatal.
func (s *Scanner) BestMatch(doc *html.Node, reference string) (Candidate, bool) {
	s.log.Debug("Scanning DOM for best match.", zap.String("reference", reference))

	var (
		best      Candidate
		bestScore float64
		found     bool
	)

	for _, n := range dom.Elements(doc) {
		c := NewCandidate(n)
		score := s.scorer.Score(c, reference)
		// Strictly greater: on equal score the earlier element wins.
		if score > bestScore {
			best = c
			bestScore = score
			found = true
		}
	}

	if !found {
		s.log.Debug("Scan produced no candidate.", zap.String("reference", reference))
		return Candidate{}, false
	}

	s.log.Debug("Scan selected candidate.",
		zap.String("reference", reference),
		zap.String("tag", best.Tag()),
		zap.Float64("score", bestScore),
	)
	return best, true
}
