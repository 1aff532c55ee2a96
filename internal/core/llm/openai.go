package llm

import (
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/lueurxax/tg-rent-finder/internal/core/errors"
)

// zeroTemperature is the smallest value go-openai still sends; a literal 0 is
// dropped by omitempty and the server default applies.
const zeroTemperature = math.SmallestNonzeroFloat32

// openaiProvider uses any OpenAI-compatible chat completion endpoint,
// including Ollama's /v1 API.
type openaiProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider. An empty baseURL targets api.openai.com.
func NewOpenAIProvider(apiKey, baseURL, model string) *openaiProvider {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &openaiProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Name returns the provider identifier.
func (p *openaiProvider) Name() ProviderName {
	return ProviderOpenAI
}

// Complete implements Provider.
func (p *openaiProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: zeroTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperrors.ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// Ensure openaiProvider implements Provider interface.
var _ Provider = (*openaiProvider)(nil)
