package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lueurxax/tg-rent-finder/internal/core/errors"
	"github.com/lueurxax/tg-rent-finder/internal/platform/config"
)

func TestOllamaProvider_Complete(t *testing.T) {
	var got ollamaChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, contentTypeJSON, r.Header.Get(headerContentType))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"model":"qwen","message":{"role":"assistant","content":"{\"accept\":true}"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/api/chat", "qwen2.5:3b-instruct")

	reply, err := p.Complete(context.Background(), SystemPrompt, "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"accept":true}`, reply)

	assert.Equal(t, "qwen2.5:3b-instruct", got.Model)
	assert.False(t, got.Stream)
	assert.Zero(t, got.Options.Temperature)
	assert.Equal(t, ollamaNumCtx, got.Options.NumCtx)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, SystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOllamaProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error with message", status: http.StatusInternalServerError, body: `{"error":"model not found"}`, wantErr: apperrors.ErrUnexpectedStatus},
		{name: "bad gateway plain", status: http.StatusBadGateway, body: `oops`, wantErr: apperrors.ErrUnexpectedStatus},
		{name: "empty content", status: http.StatusOK, body: `{"message":{"role":"assistant","content":""}}`, wantErr: apperrors.ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "m").Complete(context.Background(), "s", "p")
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get(headerAuthorization))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"score_10\":6}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("key", srv.URL, "gpt-4o-mini")

	reply, err := p.Complete(context.Background(), SystemPrompt, "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"score_10":6}`, reply)
	assert.Equal(t, "gpt-4o-mini", got["model"])

	temp, ok := got["temperature"].(float64)
	require.True(t, ok, "temperature must be sent")
	assert.Less(t, temp, 1e-6)
}

func TestNewProvider(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name     string
		provider string
		want     ProviderName
		wantNil  bool
		wantErr  bool
	}{
		{name: "default ollama", provider: "ollama", want: ProviderOllama},
		{name: "openai", provider: "OpenAI", want: ProviderOpenAI},
		{name: "disabled", provider: "none", wantNil: true},
		{name: "empty disabled", provider: "", wantNil: true},
		{name: "unknown", provider: "gemini", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{LLMProvider: tt.provider, OllamaURL: "http://localhost:11434/api/chat"}

			p, err := NewProvider(cfg, &logger)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrUnknownProvider)
				return
			}

			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, p)
				return
			}

			assert.Equal(t, tt.want, p.Name())
		})
	}
}
