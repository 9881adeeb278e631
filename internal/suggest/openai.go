// File: internal/suggest/openai.go
package suggest

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sentinelqa/healix/api/schemas"
	"github.com/sentinelqa/healix/internal/config"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAISuggester asks an OpenAI chat model for a stable locator.
type OpenAISuggester struct {
	base
	client *openai.Client
	model  string
}

var _ schemas.Suggester = (*OpenAISuggester)(nil)

func newOpenAISuggester(cfg config.SuggestConfig, session schemas.PageSession, logger *zap.Logger) *OpenAISuggester {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAISuggester{
		base:   newBase(cfg, session, logger.Named("suggest.openai")),
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Suggest implements schemas.Suggester. Every failure path returns
// ok=false; nothing propagates past this boundary.
func (s *OpenAISuggester) Suggest(ctx context.Context, reference string, failedLocators []string) (string, bool) {
	if !s.wait(ctx) {
		return "", false
	}

	userPrompt, ok := s.gatherPrompt(ctx, reference, failedLocators)
	if !ok {
		return "", false
	}

	reqCtx := ctx
	if s.cfg.APITimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.cfg.APITimeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0,
		MaxTokens:   s.cfg.MaxOutputTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		s.log.Warn("OpenAI suggestion request failed.", zap.Error(err))
		return "", false
	}
	if len(resp.Choices) == 0 {
		s.log.Warn("OpenAI returned no choices.")
		return "", false
	}

	parsed, err := parseSuggestion(resp.Choices[0].Message.Content)
	if err != nil {
		s.log.Warn("OpenAI suggestion was not parseable.", zap.Error(err))
		return "", false
	}
	if parsed.XPath == "" {
		s.log.Info("OpenAI did not return a locator.")
		return "", false
	}

	s.log.Info("OpenAI suggested locator.",
		zap.String("reference", reference),
		zap.String("locator", parsed.XPath),
		zap.String("reason", parsed.Reason),
	)
	return parsed.XPath, true
}
