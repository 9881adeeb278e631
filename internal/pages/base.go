// File: internal/pages/base.go
package pages

import (
	"context"
	"fmt"

	"github.com/sentinelqa/healix/api/schemas"
)

// Reference pairs a stable, author-chosen name for a logical UI element
// with the ordered locator list the author asserts for it. The name stays
// fixed across page versions; the locators are allowed to rot.
type Reference struct {
	Name     string
	Locators []string
}

// ElementResolver is the healing resolution capability a page object needs.
type ElementResolver interface {
	Resolve(ctx context.Context, reference string, locators []string) (*schemas.Element, error)
}

// Interactor is the interaction capability a page object needs. The
// browser session satisfies it; interactions carry their own staleness
// retry, the page object only supplies the resolved locator.
type Interactor interface {
	Click(ctx context.Context, locator string) error
	Type(ctx context.Context, locator, text string, clearFirst bool) error
}

// ClickHealed resolves a reference via healing and clicks it.
func ClickHealed(ctx context.Context, r ElementResolver, ia Interactor, ref Reference) (*schemas.Element, error) {
	el, err := r.Resolve(ctx, ref.Name, ref.Locators)
	if err != nil {
		return nil, err
	}
	if err := ia.Click(ctx, el.Locator); err != nil {
		return nil, fmt.Errorf("resolved %q but interaction failed: %w", ref.Name, err)
	}
	return el, nil
}

// PopulateHealed resolves a reference via healing and types into it,
// clearing the field first when asked.
func PopulateHealed(ctx context.Context, r ElementResolver, ia Interactor, ref Reference, value string, clearFirst bool) (*schemas.Element, error) {
	el, err := r.Resolve(ctx, ref.Name, ref.Locators)
	if err != nil {
		return nil, err
	}
	if err := ia.Type(ctx, el.Locator, value, clearFirst); err != nil {
		return nil, fmt.Errorf("resolved %q but interaction failed: %w", ref.Name, err)
	}
	return el, nil
}
