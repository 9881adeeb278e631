// File: internal/heal/resolver.go
package heal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sentinelqa/healix/api/schemas"
	"github.com/sentinelqa/healix/internal/browser/dom"
)

// LocatorMemory is the slice of the durable store the resolver needs.
type LocatorMemory interface {
	Lookup(reference string) (string, bool)
	Remember(reference, locator string) error
}

// Resolver is the resolution pipeline: a strict fallthrough from locator
// memory, through the caller-provided locators, to the remote suggestion
// strategy (when configured) and finally the local scan-and-synthesize
// heal. Every successful non-memory resolution is written back to memory
// so the next attempt short-circuits.
type Resolver struct {
	session   schemas.PageSession
	store     LocatorMemory
	scanner   *Scanner
	synth     *Synthesizer
	suggester schemas.Suggester // nil when the remote strategy is disabled
	log       *zap.Logger
}

// NewResolver wires the pipeline. suggester may be nil.
func NewResolver(
	session schemas.PageSession,
	store LocatorMemory,
	scanner *Scanner,
	synth *Synthesizer,
	suggester schemas.Suggester,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		session:   session,
		store:     store,
		scanner:   scanner,
		synth:     synth,
		suggester: suggester,
		log:       logger.Named("resolver"),
	}
}

// Resolve turns a reference name plus its candidate locators into a live
// element. Recoverable misses fall through to the next strategy; only a
// fully exhausted heal (ErrHealExhausted) or a persistence failure crosses
// this boundary.
func (r *Resolver) Resolve(ctx context.Context, reference string, locators []string) (*schemas.Element, error) {
	// Step 0: memory hit. Cheapest path; a stale or missing match is a
	// plain memory miss, never an error.
	if learned, ok := r.store.Lookup(reference); ok {
		r.log.Debug("Trying learned locator.", zap.String("reference", reference), zap.String("locator", learned))
		res, err := r.session.Query(ctx, learned)
		if err != nil {
			return nil, fmt.Errorf("query for %q failed: %w", reference, err)
		}
		if res.State == schemas.StateFound {
			return res.Element, nil
		}
		r.log.Info("Learned locator no longer matches, falling back to provided locators.",
			zap.String("reference", reference), zap.String("state", string(res.State)))
	}

	// Step 1: provided locators in caller order. Author-asserted and
	// cheap; the first hit is remembered for next time.
	for _, locator := range locators {
		r.log.Debug("Trying provided locator.", zap.String("reference", reference), zap.String("locator", locator))
		res, err := r.session.Query(ctx, locator)
		if err != nil {
			return nil, fmt.Errorf("query for %q failed: %w", reference, err)
		}
		if res.State != schemas.StateFound {
			continue
		}
		if err := r.store.Remember(reference, locator); err != nil {
			return nil, err
		}
		return res.Element, nil
	}

	r.log.Warn("All configured locators failed, healing activated.", zap.String("reference", reference))

	// Step 2a: remote suggestion, when configured. Validated by a live
	// query before anything gets remembered; any failure just skips ahead.
	if r.suggester != nil {
		if el, done, err := r.trySuggestion(ctx, reference, locators); done {
			return el, err
		}
	}

	// Step 2b: local scan + synthesis.
	return r.heal(ctx, reference)
}

// trySuggestion asks the remote strategy for a locator and validates it.
// done is false when the pipeline should continue to the local scan.
func (r *Resolver) trySuggestion(ctx context.Context, reference string, failed []string) (*schemas.Element, bool, error) {
	locator, ok := r.suggester.Suggest(ctx, reference, failed)
	if !ok {
		return nil, false, nil
	}

	res, err := r.session.Query(ctx, locator)
	if err != nil {
		return nil, true, fmt.Errorf("query for %q failed: %w", reference, err)
	}
	if res.State != schemas.StateFound {
		r.log.Info("Suggested locator matched nothing, falling back to local scan.",
			zap.String("reference", reference), zap.String("locator", locator))
		return nil, false, nil
	}

	r.log.Info("Heal succeeded via remote suggestion.",
		zap.String("reference", reference), zap.String("locator", locator))
	if err := r.store.Remember(reference, locator); err != nil {
		return nil, true, err
	}
	return res.Element, true, nil
}

// heal runs the full-page scan, synthesizes a fresh locator from the best
// candidate, persists it, and re-queries for a live handle.
func (r *Resolver) heal(ctx context.Context, reference string) (*schemas.Element, error) {
	snapshot, err := r.session.PageHTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot for %q failed: %w", reference, err)
	}
	doc, err := dom.Parse(snapshot)
	if err != nil {
		return nil, fmt.Errorf("snapshot for %q failed: %w", reference, err)
	}

	best, ok := r.scanner.BestMatch(doc, reference)
	if !ok {
		return nil, exhausted(reference)
	}

	locator := r.synth.Build(best)
	r.log.Info("Heal generated fallback locator.",
		zap.String("reference", reference), zap.String("locator", locator))

	if err := r.store.Remember(reference, locator); err != nil {
		return nil, err
	}

	// Fresh lookup so the caller gets a live handle, not a snapshot node.
	res, err := r.session.Query(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("query for %q failed: %w", reference, err)
	}
	if res.State != schemas.StateFound {
		// The synthesized locator does not resolve on the live page; the
		// page must have moved on since the snapshot. Nothing usable.
		return nil, exhausted(reference)
	}
	return res.Element, nil
}
