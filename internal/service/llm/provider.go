// Package llm defines the provider abstraction shared by the summarizer and
// chat services, the static model catalog and the error taxonomy of
// completion calls.
package llm

import (
	"context"
	"sort"
	"strings"
)

// ProviderName identifies one of the supported LLM backends.
type ProviderName string

// Supported providers.
const (
	OpenAI    ProviderName = "openai"
	Anthropic ProviderName = "anthropic"
)

// Providers lists the supported backends in fallback order.
var Providers = []ProviderName{OpenAI, Anthropic}

// ParseProviderName validates a configured provider name.
func ParseProviderName(s string) (ProviderName, bool) {
	switch ProviderName(strings.ToLower(strings.TrimSpace(s))) {
	case OpenAI:
		return OpenAI, true
	case Anthropic:
		return Anthropic, true
	}
	return "", false
}

// CompletionRequest is a single-turn completion.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider is an LLM completion backend.
type Provider interface {
	Name() ProviderName
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Models() []string
}

// Catalog maps each provider to the models it serves.
type Catalog map[ProviderName][]string

// DefaultCatalog returns the models offered for each provider.
func DefaultCatalog() Catalog {
	return Catalog{
		OpenAI:    {"gpt-4.1", "gpt-4.1-mini", "gpt-3.5-turbo"},
		Anthropic: {"claude-sonnet-4-20250514", "claude-3-5-sonnet-20241022"},
	}
}

// Contains reports whether model is listed for provider.
func (c Catalog) Contains(provider ProviderName, model string) bool {
	for _, m := range c[provider] {
		if m == model {
			return true
		}
	}
	return false
}

// First returns the first model listed for provider.
func (c Catalog) First(provider ProviderName) string {
	if models := c[provider]; len(models) > 0 {
		return models[0]
	}
	return ""
}

// ResolveModel maps a model name to its provider. Name prefixes win
// ("claude"/"anthropic", "gpt"/"openai"); otherwise the catalog is searched
// for an exact match.
func ResolveModel(model string, catalog Catalog) (ProviderName, error) {
	switch {
	case strings.HasPrefix(model, "claude"), strings.HasPrefix(model, "anthropic"):
		return Anthropic, nil
	case strings.HasPrefix(model, "gpt"), strings.HasPrefix(model, "openai"):
		return OpenAI, nil
	}

	names := make([]string, 0, len(catalog))
	for p := range catalog {
		names = append(names, string(p))
	}
	sort.Strings(names)
	for _, p := range names {
		if catalog.Contains(ProviderName(p), model) {
			return ProviderName(p), nil
		}
	}

	return "", &UnknownModelError{Model: model, Available: catalog}
}
