// File: internal/suggest/prompt.go
package suggest

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/sentinelqa/healix/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// systemPrompt instructs the model to act as a selector engineer and to
// answer in the structured form parseSuggestion expects.
const systemPrompt = `You are an expert QA automation engineer. Given metadata for DOM elements,
you must choose the most stable XPath that targets the requested element.
Each candidate carries a verified "xpath" for the captured page; prefer one of those
when it targets the right element, or improve on it.
Prefer ids, data-testid attributes, roles, and text matches (including descendant text)
over brittle indexes. Use contains() or descendant predicates when the element text
is rendered by nested spans.
Respond in JSON with "xpath" and "reason" keys.`

// buildUserPrompt assembles the per-request payload: the reference, the
// locators that already failed, the candidate summaries and a truncated
// DOM snapshot.
func buildUserPrompt(reference string, failedLocators []string, candidates []schemas.CandidateSummary, snapshot string) (string, error) {
	candJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode candidate summaries: %w", err)
	}

	failed := "[]"
	if len(failedLocators) > 0 {
		encoded, err := json.Marshal(failedLocators)
		if err != nil {
			return "", fmt.Errorf("failed to encode failed locators: %w", err)
		}
		failed = string(encoded)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Target description: %s\n", reference)
	fmt.Fprintf(&sb, "Failed locators provided by the test: %s\n\n", failed)
	fmt.Fprintf(&sb, "Candidate elements (JSON list):\n%s\n\n", candJSON)
	fmt.Fprintf(&sb, "DOM snapshot (truncated to %d chars):\n%s", len(snapshot), snapshot)
	return sb.String(), nil
}

// parseSuggestion extracts the {"xpath","reason"} object from a model
// reply. Models occasionally wrap JSON in prose or code fences, so the
// outermost braces bound what gets decoded.
func parseSuggestion(content string) (schemas.SuggestionResponse, error) {
	var resp schemas.SuggestionResponse

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return resp, fmt.Errorf("no JSON object in suggestion response")
	}

	if err := json.Unmarshal([]byte(content[start:end+1]), &resp); err != nil {
		return resp, fmt.Errorf("failed to decode suggestion response: %w", err)
	}
	resp.XPath = strings.TrimSpace(resp.XPath)
	return resp, nil
}

// truncateSnapshot caps the DOM snapshot fed into the prompt.
func truncateSnapshot(snapshot string, maxChars int) string {
	if maxChars > 0 && len(snapshot) > maxChars {
		return snapshot[:maxChars]
	}
	return snapshot
}
