package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModel(t *testing.T) {
	catalog := DefaultCatalog()
	catalog["openai"] = append(catalog["openai"], "o3-custom")

	tests := []struct {
		model   string
		want    ProviderName
		wantErr bool
	}{
		{model: "claude-sonnet-4-20250514", want: Anthropic},
		{model: "claude-future", want: Anthropic},
		{model: "anthropic/opus", want: Anthropic},
		{model: "gpt-4.1-mini", want: OpenAI},
		{model: "openai-o1", want: OpenAI},
		{model: "o3-custom", want: OpenAI},
		{model: "mistral-large", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, err := ResolveModel(tt.model, catalog)
			if tt.wantErr {
				var unknown *UnknownModelError
				require.ErrorAs(t, err, &unknown)
				assert.Contains(t, err.Error(), "anthropic: claude-sonnet-4-20250514")
				assert.Contains(t, err.Error(), "openai: gpt-4.1")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProviderName(t *testing.T) {
	p, ok := ParseProviderName(" Anthropic ")
	assert.True(t, ok)
	assert.Equal(t, Anthropic, p)

	_, ok = ParseProviderName("ollama")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   ErrorKind
	}{
		{"429 status", 429, errors.New("slow down"), KindRateLimited},
		{"rate limit code in body", 400, errors.New(`{"code":"rate_limit_exceeded"}`), KindRateLimited},
		{"413 status", 413, errors.New("nope"), KindTooLarge},
		{"request too large wins over 429", 429, errors.New("Request too large for gpt-4.1 on tokens per min"), KindTooLarge},
		{"context length", 400, errors.New("This model's maximum context length is 128000 tokens"), KindTooLarge},
		{"anthropic prompt too long", 400, errors.New("prompt is too long: 210000 tokens"), KindTooLarge},
		{"server error", 500, errors.New("internal"), KindOther},
		{"nil error", 0, nil, KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, tt.err))
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	rate := fmt.Errorf("summarize: %w", NewCallError(OpenAI, "gpt-4.1", 429, errors.New("limit")))
	large := NewCallError(Anthropic, "claude-x", 413, errors.New("big"))
	other := NewCallError(OpenAI, "gpt-4.1", 500, errors.New("boom"))

	assert.True(t, IsRateLimited(rate))
	assert.True(t, IsContextReducible(rate))
	assert.True(t, IsTooLarge(large))
	assert.True(t, IsContextReducible(large))
	assert.False(t, IsContextReducible(other))
	assert.False(t, IsContextReducible(errors.New("plain")))
	assert.Contains(t, other.Error(), "openai call with model gpt-4.1 failed (other): boom")
	assert.Equal(t, "anthropic provider is not configured", (&ProviderNotConfiguredError{Provider: Anthropic}).Error())
}

type countingProvider struct{ calls int }

func (c *countingProvider) Name() ProviderName { return OpenAI }
func (c *countingProvider) Models() []string   { return nil }
func (c *countingProvider) Complete(context.Context, CompletionRequest) (string, error) {
	c.calls++
	return "ok", nil
}

func TestWithRateLimit(t *testing.T) {
	inner := &countingProvider{}
	assert.Same(t, Provider(inner), WithRateLimit(inner, 0))

	limited := WithRateLimit(inner, 6)
	assert.Equal(t, OpenAI, limited.Name())

	out, err := limited.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = limited.Complete(ctx, CompletionRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
