// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/sentinelqa/healix/api/schemas"
	"github.com/sentinelqa/healix/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Session represents one browser tab and implements schemas.PageSession.
// It is a single shared mutable resource: one resolution or interaction
// runs at a time, which the callers (and the pipeline's synchronous
// design) already guarantee.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	log    *zap.Logger

	mu       sync.Mutex
	isClosed bool
}

var _ schemas.PageSession = (*Session)(nil)

func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger) *Session {
	sessionID := uuid.New().String()
	return &Session{
		id:     sessionID,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		log:    logger.Named("session").With(zap.String("session_id", sessionID)),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Close tears down the tab. Safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isClosed {
		return
	}
	s.isClosed = true
	s.cancel()
}

// combineContext derives a context from the session's tab context that is
// also canceled when the caller's context ends.
func (s *Session) combineContext(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// Navigate loads the URL and waits for the page to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.log.Debug("Navigating.", zap.String("url", url))

	opCtx, opCancel := s.combineContext(ctx)
	defer opCancel()

	navTimeout := s.cfg.Network.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}
	navCtx, navCancel := context.WithTimeout(opCtx, navTimeout)
	defer navCancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation timed out after %s: %w", navTimeout, err)
		}
		if opCtx.Err() != nil {
			return fmt.Errorf("navigation canceled: %w", opCtx.Err())
		}
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.stabilize(opCtx)
	return nil
}

// stabilize waits for the body to be ready plus a quiet period for late
// renders. Best effort: a slow page is not a navigation failure.
func (s *Session) stabilize(ctx context.Context) {
	stabCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := chromedp.Run(stabCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		s.log.Debug("WaitReady failed during stabilization.", zap.Error(err))
	}

	if wait := s.cfg.Network.PostLoadWait; wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}
}

// queryScript evaluates an XPath in the page and describes the first
// matching node. Evaluation errors (bad XPath) surface as an error field
// so they classify as recoverable misses, not exceptions.
const queryScript = `(function(xp) {
	let result;
	try {
		result = document.evaluate(xp, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
	} catch (e) {
		return {error: String(e)};
	}
	const n = result.singleNodeValue;
	if (!n) {
		return null;
	}
	const text = (n.innerText || n.textContent || "").trim();
	return {
		tag: n.tagName ? n.tagName.toLowerCase() : "",
		id: n.id || "",
		text: text.slice(0, 200)
	};
})(%s)`

type queryHit struct {
	Tag   string `json:"tag"`
	ID    string `json:"id"`
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Query evaluates an XPath locator against the live page. Misses and
// staleness come back as states; only infrastructure failures (canceled
// caller, dead tab) become errors.
func (s *Session) Query(ctx context.Context, locator string) (schemas.QueryResult, error) {
	opCtx, opCancel := s.combineContext(ctx)
	defer opCancel()

	timeout := s.cfg.Network.QueryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	qCtx, qCancel := context.WithTimeout(opCtx, timeout)
	defer qCancel()

	encoded, err := json.Marshal(locator)
	if err != nil {
		return schemas.QueryResult{}, fmt.Errorf("failed to encode locator: %w", err)
	}
	script := fmt.Sprintf(queryScript, string(encoded))

	var hit *queryHit
	err = chromedp.Run(qCtx, chromedp.Evaluate(script, &hit,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true)
		},
	))
	if err != nil {
		return s.classifyQueryError(ctx, qCtx, locator, err)
	}

	if hit == nil {
		return schemas.NotFound(), nil
	}
	if hit.Error != "" {
		// document.evaluate rejected the expression; treat the locator as
		// matching nothing rather than blowing up the pipeline.
		s.log.Debug("Locator evaluation rejected.", zap.String("locator", locator), zap.String("reason", hit.Error))
		return schemas.NotFound(), nil
	}

	return schemas.Found(&schemas.Element{
		Locator: locator,
		Tag:     hit.Tag,
		ID:      hit.ID,
		Text:    hit.Text,
	}), nil
}

// classifyQueryError sorts a chromedp failure into the recoverable states
// versus a real infrastructure error.
func (s *Session) classifyQueryError(callerCtx, qCtx context.Context, locator string, err error) (schemas.QueryResult, error) {
	// The caller gave up or the session is gone: propagate.
	if callerCtx.Err() != nil {
		return schemas.QueryResult{}, callerCtx.Err()
	}
	if s.ctx.Err() != nil {
		return schemas.QueryResult{}, fmt.Errorf("browser session closed: %w", s.ctx.Err())
	}

	// Query timeout: the page never produced an answer, a recoverable miss.
	if errors.Is(qCtx.Err(), context.DeadlineExceeded) {
		s.log.Debug("Locator query timed out.", zap.String("locator", locator))
		return schemas.NotFound(), nil
	}

	// The execution context vanished mid-query: navigation or re-render
	// in flight. Recoverable, but distinct from a plain miss.
	msg := err.Error()
	if strings.Contains(msg, "Execution context was destroyed") ||
		strings.Contains(msg, "Cannot find context") ||
		strings.Contains(msg, "context id not found") {
		s.log.Debug("Page changed during query.", zap.String("locator", locator), zap.Error(err))
		return schemas.Stale(), nil
	}

	return schemas.QueryResult{}, fmt.Errorf("locator query failed: %w", err)
}

// PageHTML captures the serialized DOM of the current page.
func (s *Session) PageHTML(ctx context.Context) (string, error) {
	opCtx, opCancel := s.combineContext(ctx)
	defer opCancel()

	timeout := s.cfg.Network.QueryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	snapCtx, snapCancel := context.WithTimeout(opCtx, timeout)
	defer snapCancel()

	var snapshot string
	if err := chromedp.Run(snapCtx, chromedp.OuterHTML("html", &snapshot, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture page snapshot: %w", err)
	}
	return snapshot, nil
}
