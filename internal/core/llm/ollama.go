package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/lueurxax/tg-rent-finder/internal/core/errors"
)

// ollamaProvider talks to the native Ollama chat endpoint (/api/chat).
type ollamaProvider struct {
	url        string
	model      string
	httpClient *http.Client
}

// ollamaChatRequest represents the Ollama chat API request.
type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Options  ollamaOptions       `json:"options"`
	Stream   bool                `json:"stream"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

// ollamaChatResponse represents the non-streaming chat response.
type ollamaChatResponse struct {
	Model   string            `json:"model"`
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a provider for the given /api/chat URL and model.
// Deadlines come from the caller's context.
func NewOllamaProvider(url, model string) *ollamaProvider {
	return &ollamaProvider{
		url:        url,
		model:      model,
		httpClient: &http.Client{},
	}
}

// Name returns the provider identifier.
func (p *ollamaProvider) Name() ProviderName {
	return ProviderOllama
}

// Complete implements Provider.
func (p *ollamaProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	reqBody := ollamaChatRequest{
		Model: p.model,
		Messages: []ollamaChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Options: ollamaOptions{Temperature: 0, NumCtx: ollamaNumCtx},
		Stream:  false,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", fmt.Errorf(errFmtMarshalRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, &buf)
	if err != nil {
		return "", fmt.Errorf(errFmtCreateRequest, err)
	}

	req.Header.Set(headerContentType, contentTypeJSON)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf(errFmtReadResponse, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", p.parseAPIError(body, resp.StatusCode)
	}

	return p.extractResponseText(body)
}

// parseAPIError extracts error details from the API response.
func (p *ollamaProvider) parseAPIError(body []byte, statusCode int) error {
	var errResp ollamaErrorResponse
	if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != "" {
		return fmt.Errorf(errFmtAPIWithMessage, apperrors.ErrUnexpectedStatus, statusCode, errResp.Error)
	}

	return fmt.Errorf(errFmtAPIStatusOnly, apperrors.ErrUnexpectedStatus, statusCode)
}

// extractResponseText returns message.content from the chat response.
func (p *ollamaProvider) extractResponseText(body []byte) (string, error) {
	var resp ollamaChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf(errFmtDecodeResponse, err)
	}

	if resp.Message.Content == "" {
		return "", apperrors.ErrEmptyResponse
	}

	return resp.Message.Content, nil
}

// Ensure ollamaProvider implements Provider interface.
var _ Provider = (*ollamaProvider)(nil)
