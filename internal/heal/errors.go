// File: internal/heal/errors.go
package heal

import (
	"errors"
	"fmt"
)

// ErrHealExhausted is the terminal resolution failure: every strategy,
// including the DOM scan (and remote suggestion when enabled), produced no
// usable node. It is distinct from "found but could not be persisted" so
// test frameworks can report "element truly not found".
var ErrHealExhausted = errors.New("heal exhausted: no strategy produced a usable element")

// exhausted wraps ErrHealExhausted with the reference name.
func exhausted(reference string) error {
	return fmt.Errorf("reference %q: %w", reference, ErrHealExhausted)
}
