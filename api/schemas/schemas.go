// File: api/schemas/schemas.go
package schemas

// Element describes a resolved, currently-live page element. The Locator is
// the expression that found it; interactions re-query by this locator, so a
// held Element never outlives a navigation silently.
type Element struct {
	Locator string `json:"locator"`
	Tag     string `json:"tag"`
	ID      string `json:"id,omitempty"`
	Text    string `json:"text,omitempty"`
}

// QueryState classifies the outcome of evaluating a locator against the
// live page. Misses and staleness are values, not errors; every fallback
// transition in the resolution pipeline keys off this state.
type QueryState string

const (
	// StateFound means the locator matched at least one live node.
	StateFound QueryState = "found"
	// StateNotFound means the locator is valid but matched nothing.
	StateNotFound QueryState = "not_found"
	// StateStale means the page was mid-transition (context destroyed,
	// re-render in flight) and the query result cannot be trusted.
	StateStale QueryState = "stale"
)

// QueryResult pairs a QueryState with the element it found, if any.
type QueryResult struct {
	State   QueryState
	Element *Element
}

// Found wraps a live element in a successful result.
func Found(el *Element) QueryResult {
	return QueryResult{State: StateFound, Element: el}
}

// NotFound is the recoverable "matched nothing" result.
func NotFound() QueryResult {
	return QueryResult{State: StateNotFound}
}

// Stale is the recoverable "page changed underneath us" result.
func Stale() QueryResult {
	return QueryResult{State: StateStale}
}

// CandidateSummary is the compact description of a DOM node that gets fed
// to a remote suggestion service. XPath is a verified locator for the node
// within the captured snapshot, so the model can pick a concrete selector
// instead of inventing one. Previews are truncated at collection time to
// bound prompt size.
type CandidateSummary struct {
	Tag              string            `json:"tag"`
	XPath            string            `json:"xpath"`
	Text             string            `json:"text,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	OuterHTMLPreview string            `json:"outer_html_preview,omitempty"`
}

// SuggestionResponse is the structured reply expected from a suggestion
// provider: a single XPath plus the model's rationale.
type SuggestionResponse struct {
	XPath  string `json:"xpath"`
	Reason string `json:"reason"`
}
