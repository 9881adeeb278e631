// -- cmd/runtime.go --
package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sentinelqa/healix/internal/browser"
	"github.com/sentinelqa/healix/internal/config"
	"github.com/sentinelqa/healix/internal/heal"
	"github.com/sentinelqa/healix/internal/memory"
	"github.com/sentinelqa/healix/internal/observability"
	"github.com/sentinelqa/healix/internal/suggest"
)

// healRuntime bundles the per-invocation session state: one browser, one
// tab, one memory store, one resolver.
type healRuntime struct {
	cfg      *config.Config
	log      *zap.Logger
	manager  *browser.Manager
	session  *browser.Session
	store    *memory.Store
	resolver *heal.Resolver
}

// newHealRuntime spins up the browser and wires the resolution pipeline.
func newHealRuntime(ctx context.Context) (*healRuntime, error) {
	cfg := appCfg
	log := observability.GetLogger()

	store, err := memory.Open(cfg.Memory.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open locator memory: %w", err)
	}

	manager := browser.NewManager(ctx, cfg, log)
	session, err := manager.NewSession(ctx)
	if err != nil {
		manager.Close()
		return nil, err
	}

	suggester, err := suggest.New(cfg.Suggest, session, log)
	if err != nil {
		session.Close()
		manager.Close()
		return nil, err
	}

	scorer := heal.NewScorer(cfg.Heal.Weights)
	resolver := heal.NewResolver(
		session,
		store,
		heal.NewScanner(scorer, log),
		heal.NewSynthesizer(cfg.Heal.ShortTextMaxChars),
		suggester,
		log,
	)

	return &healRuntime{
		cfg:      cfg,
		log:      log,
		manager:  manager,
		session:  session,
		store:    store,
		resolver: resolver,
	}, nil
}

// Close releases the browser resources.
func (h *healRuntime) Close() {
	h.session.Close()
	h.manager.Close()
}
