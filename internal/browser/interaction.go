// internal/browser/interaction.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// actionTimeout returns the configured per-action timeout with a fallback.
func (s *Session) actionTimeout() time.Duration {
	if t := s.cfg.Network.ActionTimeout; t > 0 {
		return t
	}
	return 30 * time.Second
}

// Click scrolls the element into view and clicks it. The locator is an
// XPath; staleness between resolution and click is retried once, since a
// re-render right after resolution is the common case.
func (s *Session) Click(ctx context.Context, locator string) error {
	s.log.Debug("Clicking element.", zap.String("locator", locator))

	action := chromedp.Tasks{
		chromedp.ScrollIntoView(locator, chromedp.BySearch),
		chromedp.WaitVisible(locator, chromedp.BySearch),
		chromedp.Click(locator, chromedp.BySearch),
	}

	if err := s.runWithRetry(ctx, action); err != nil {
		return fmt.Errorf("click failed for locator %q: %w", locator, err)
	}
	return nil
}

// Type inputs text into the element, optionally clearing it first.
func (s *Session) Type(ctx context.Context, locator, text string, clearFirst bool) error {
	s.log.Debug("Typing into element.", zap.String("locator", locator), zap.Int("text_length", len(text)))

	tasks := chromedp.Tasks{
		chromedp.ScrollIntoView(locator, chromedp.BySearch),
		chromedp.WaitVisible(locator, chromedp.BySearch),
	}
	if clearFirst {
		tasks = append(tasks, chromedp.Clear(locator, chromedp.BySearch))
	}
	tasks = append(tasks, chromedp.SendKeys(locator, text, chromedp.BySearch))

	if err := s.runWithRetry(ctx, tasks); err != nil {
		return fmt.Errorf("type failed for locator %q: %w", locator, err)
	}
	return nil
}

// runWithRetry executes an action with the per-action timeout, retrying
// once when the first attempt dies to a transient page transition.
func (s *Session) runWithRetry(ctx context.Context, action chromedp.Action) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		opCtx, opCancel := s.combineContext(ctx)
		actCtx, actCancel := context.WithTimeout(opCtx, s.actionTimeout())

		err := chromedp.Run(actCtx, action)
		actCancel()
		opCancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || s.ctx.Err() != nil {
			return err
		}
		s.log.Debug("Interaction attempt failed, retrying once.", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return lastErr
}
