// File: api/schemas/interfaces.go
package schemas

import "context"

// PageSession is the DOM query capability the resolution pipeline needs
// from a browser session. Query reports misses and staleness as states;
// the returned error is reserved for infrastructure failures (canceled
// context, dead browser).
type PageSession interface {
	// Query evaluates an XPath locator against the live page and returns
	// the first match.
	Query(ctx context.Context, locator string) (QueryResult, error)
	// PageHTML captures the current DOM as serialized HTML.
	PageHTML(ctx context.Context) (string, error)
}

// Suggester is the pluggable remote locator suggestion strategy. Any
// failure (missing credentials, network error, malformed response) must
// degrade to ok=false, never panic or error, so the pipeline can fall back
// to the local scanner.
type Suggester interface {
	Suggest(ctx context.Context, reference string, failedLocators []string) (locator string, ok bool)
}
