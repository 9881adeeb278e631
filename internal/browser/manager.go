// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/sentinelqa/healix/internal/config"
)

// Manager owns the browser process allocator. One Manager serves one
// process; sessions are tabs created from it.
type Manager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	cfg         *config.Config
	log         *zap.Logger
}

// NewManager builds the exec allocator from browser configuration.
func NewManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Manager {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	if cfg.Browser.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.Browser.WindowWidth > 0 && cfg.Browser.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(cfg.Browser.WindowWidth, cfg.Browser.WindowHeight))
	}
	for _, arg := range cfg.Browser.Args {
		opts = append(opts, chromedp.Flag(strings.TrimPrefix(arg, "--"), true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)

	return &Manager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		cfg:         cfg,
		log:         logger.Named("browser"),
	}
}

// NewSession opens a fresh tab and returns its session wrapper.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	var ctxOpts []chromedp.ContextOption
	if m.cfg.Browser.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(m.log.Sugar().Debugf))
	}

	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx, ctxOpts...)

	// Run an empty task list so the target exists and CDP is connected
	// before the caller issues real work.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to initialize browser tab: %w", err)
	}

	return newSession(tabCtx, tabCancel, m.cfg, m.log), nil
}

// Close tears down the browser process. Sessions become unusable.
func (m *Manager) Close() {
	m.allocCancel()
}
