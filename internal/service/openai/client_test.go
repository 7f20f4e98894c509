package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
)

func TestClient_Complete(t *testing.T) {
	t.Run("sends system and user messages", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"summary text"},"finish_reason":"stop"}]}`))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
		out, err := client.Complete(context.Background(), llm.CompletionRequest{
			Model:       "gpt-4.1",
			System:      "be helpful",
			Prompt:      "summarize",
			MaxTokens:   100,
			Temperature: 0.7,
		})

		require.NoError(t, err)
		assert.Equal(t, "summary text", out)
		assert.Equal(t, "gpt-4.1", got["model"])
		assert.InDelta(t, 100, got["max_tokens"], 0)
		messages := got["messages"].([]any)
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])
		assert.Equal(t, "summarize", messages[1].(map[string]any)["content"])
	})

	t.Run("classifies rate limits", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
		_, err := client.Complete(context.Background(), llm.CompletionRequest{Model: "gpt-4.1", Prompt: "hi"})

		require.Error(t, err)
		assert.True(t, llm.IsRateLimited(err))
		var callErr *llm.CallError
		require.ErrorAs(t, err, &callErr)
		assert.Equal(t, llm.OpenAI, callErr.Provider)
	})

	t.Run("classifies oversized requests", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"This model's maximum context length is 128000 tokens.","type":"invalid_request_error","code":"context_length_exceeded"}}`))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
		_, err := client.Complete(context.Background(), llm.CompletionRequest{Model: "gpt-4.1", Prompt: "hi"})

		assert.True(t, llm.IsTooLarge(err))
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/v1"})
		_, err := client.Complete(context.Background(), llm.CompletionRequest{Model: "gpt-4.1", Prompt: "hi"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})
}

func TestClient_Models(t *testing.T) {
	assert.Equal(t, []string{"gpt-4.1", "gpt-4.1-mini", "gpt-3.5-turbo"}, NewClient(Config{}).Models())
	assert.Equal(t, []string{"custom"}, NewClient(Config{Models: []string{"custom"}}).Models())
	assert.Equal(t, llm.OpenAI, NewClient(Config{}).Name())
}
