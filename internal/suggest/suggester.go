// File: internal/suggest/suggester.go
package suggest

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sentinelqa/healix/api/schemas"
	"github.com/sentinelqa/healix/internal/browser/dom"
	"github.com/sentinelqa/healix/internal/config"
)

// New is the provider factory. It returns a nil Suggester (and no error)
// when the strategy is disabled or unusable without credentials; the
// pipeline treats nil as "feature unavailable" and heals locally.
func New(cfg config.SuggestConfig, session schemas.PageSession, logger *zap.Logger) (schemas.Suggester, error) {
	switch cfg.Provider {
	case "", config.ProviderOff:
		return nil, nil
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			logger.Info("Remote suggestion disabled: no API key configured.")
			return nil, nil
		}
		return newOpenAISuggester(cfg, session, logger), nil
	case config.ProviderGemini:
		if cfg.APIKey == "" {
			logger.Info("Remote suggestion disabled: no API key configured.")
			return nil, nil
		}
		return newGeminiSuggester(cfg, session, logger), nil
	default:
		return nil, fmt.Errorf("unknown suggestion provider: %q", cfg.Provider)
	}
}

// base holds what every provider shares: the page session for gathering
// context, the limits, and the request rate limiter.
type base struct {
	session schemas.PageSession
	cfg     config.SuggestConfig
	limiter *rate.Limiter
	log     *zap.Logger
}

func newBase(cfg config.SuggestConfig, session schemas.PageSession, log *zap.Logger) base {
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 10
	}
	return base{
		session: session,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(rpm/60.0), 1),
		log:     log,
	}
}

// gatherPrompt captures the page, summarizes candidate controls and builds
// the user prompt. ok is false when there is nothing worth asking about.
func (b *base) gatherPrompt(ctx context.Context, reference string, failedLocators []string) (string, bool) {
	snapshot, err := b.session.PageHTML(ctx)
	if err != nil {
		b.log.Warn("Unable to capture DOM snapshot for suggestion.", zap.Error(err))
		return "", false
	}
	doc, err := dom.Parse(snapshot)
	if err != nil {
		b.log.Warn("Unable to parse DOM snapshot for suggestion.", zap.Error(err))
		return "", false
	}

	candidates := CollectCandidates(doc, reference, b.cfg.MaxCandidates)
	if len(candidates) == 0 {
		b.log.Info("Remote suggestion skipped: no DOM candidates available.")
		return "", false
	}

	prompt, err := buildUserPrompt(reference, failedLocators, candidates, truncateSnapshot(snapshot, b.cfg.SnapshotMaxChars))
	if err != nil {
		b.log.Warn("Unable to build suggestion prompt.", zap.Error(err))
		return "", false
	}
	return prompt, true
}

// wait applies the rate limit; false when the caller's context ended first.
func (b *base) wait(ctx context.Context) bool {
	if err := b.limiter.Wait(ctx); err != nil {
		b.log.Debug("Suggestion rate limit wait aborted.", zap.Error(err))
		return false
	}
	return true
}
