package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/lueurxax/tg-rent-finder/internal/core/errors"
	"github.com/lueurxax/tg-rent-finder/internal/platform/config"
)

// ProviderName identifies an LLM provider.
type ProviderName string

// Provider name constants.
const (
	ProviderOllama ProviderName = "ollama"
	ProviderOpenAI ProviderName = "openai"
	ProviderNone   ProviderName = "none"
)

// Provider sends one system+user exchange and returns the raw reply text.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderName

	// Complete runs a single deterministic (temperature 0) chat completion.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// NewProvider builds the provider selected by LLM_PROVIDER.
// It returns (nil, nil) when the oracle is disabled.
func NewProvider(cfg *config.Config, logger *zerolog.Logger) (Provider, error) {
	name := ProviderName(strings.ToLower(strings.TrimSpace(cfg.LLMProvider)))

	switch name {
	case "", ProviderNone:
		logger.Info().Msg("LLM oracle disabled, using local heuristics only")
		return nil, nil //nolint:nilnil // disabled oracle is a valid configuration
	case ProviderOllama:
		return NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownProvider, cfg.LLMProvider)
	}
}
