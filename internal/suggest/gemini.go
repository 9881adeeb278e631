// File: internal/suggest/gemini.go
package suggest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/sentinelqa/healix/api/schemas"
	"github.com/sentinelqa/healix/internal/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiSuggester talks to the Gemini generateContent API over plain HTTP
// with retry on transient failures.
type GeminiSuggester struct {
	base
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

var _ schemas.Suggester = (*GeminiSuggester)(nil)

// -- Gemini API request/response structures (internal to this file) --

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequestPayload struct {
	Contents          []geminiContent          `json:"contents"`
	SystemInstruction *geminiSystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  geminiGenerationConfig   `json:"generationConfig"`
}

type geminiResponsePayload struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

func newGeminiSuggester(cfg config.SuggestConfig, session schemas.PageSession, logger *zap.Logger) *GeminiSuggester {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", model)
	}

	timeout := cfg.APITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &GeminiSuggester{
		base:       newBase(cfg, session, logger.Named("suggest.gemini")),
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Suggest implements schemas.Suggester. Every failure path returns
// ok=false; nothing propagates past this boundary.
func (s *GeminiSuggester) Suggest(ctx context.Context, reference string, failedLocators []string) (string, bool) {
	if !s.wait(ctx) {
		return "", false
	}

	userPrompt, ok := s.gatherPrompt(ctx, reference, failedLocators)
	if !ok {
		return "", false
	}

	content, err := s.generate(ctx, userPrompt)
	if err != nil {
		s.log.Warn("Gemini suggestion request failed.", zap.Error(err))
		return "", false
	}

	parsed, err := parseSuggestion(content)
	if err != nil {
		s.log.Warn("Gemini suggestion was not parseable.", zap.Error(err))
		return "", false
	}
	if parsed.XPath == "" {
		s.log.Info("Gemini did not return a locator.")
		return "", false
	}

	s.log.Info("Gemini suggested locator.",
		zap.String("reference", reference),
		zap.String("locator", parsed.XPath),
		zap.String("reason", parsed.Reason),
	)
	return parsed.XPath, true
}

// generate runs one generateContent call with exponential backoff on
// transient API failures.
func (s *GeminiSuggester) generate(ctx context.Context, userPrompt string) (string, error) {
	payload := geminiRequestPayload{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		SystemInstruction: &geminiSystemInstruction{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0,
			ResponseMimeType: "application/json",
			MaxOutputTokens:  s.cfg.MaxOutputTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Minute
	b.MaxInterval = 30 * time.Second

	var responseContent string

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", s.apiKey)

		resp, err := s.httpClient.Do(httpReq)
		if err != nil {
			s.log.Debug("Network error during suggestion request, retrying.", zap.Error(err))
			return fmt.Errorf("failed to execute HTTP request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return s.classifyStatus(resp.StatusCode, respBody)
		}

		var responsePayload geminiResponsePayload
		if err := json.Unmarshal(respBody, &responsePayload); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response payload: %w", err))
		}
		if len(responsePayload.Candidates) == 0 {
			return backoff.Permanent(fmt.Errorf("gemini API returned no candidates"))
		}

		candidate := responsePayload.Candidates[0]
		if len(candidate.Content.Parts) == 0 {
			if candidate.FinishReason == "SAFETY" || candidate.FinishReason == "BLOCKLIST" {
				return backoff.Permanent(fmt.Errorf("gemini API blocked the request (reason: %s)", candidate.FinishReason))
			}
			return fmt.Errorf("gemini API returned empty content parts (reason: %s)", candidate.FinishReason)
		}

		responseContent = candidate.Content.Parts[0].Text
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}
	return responseContent, nil
}

// classifyStatus separates transient API failures (worth a retry) from
// permanent ones.
func (s *GeminiSuggester) classifyStatus(statusCode int, body []byte) error {
	err := fmt.Errorf("gemini API error: status %d, body: %s", statusCode, string(body))
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusInternalServerError:
		return err
	default:
		return backoff.Permanent(err)
	}
}
