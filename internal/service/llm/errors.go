package llm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoProviderConfigured is returned when neither provider has credentials.
var ErrNoProviderConfigured = errors.New("no AI provider is properly configured")

// ProviderNotConfiguredError is returned when a request resolves to a
// provider without credentials.
type ProviderNotConfiguredError struct {
	Provider ProviderName
}

func (e *ProviderNotConfiguredError) Error() string {
	return fmt.Sprintf("%s provider is not configured", e.Provider)
}

// UnknownModelError is returned when a model matches no provider.
type UnknownModelError struct {
	Model     string
	Available Catalog
}

func (e *UnknownModelError) Error() string {
	providers := make([]string, 0, len(e.Available))
	for p := range e.Available {
		providers = append(providers, string(p))
	}
	sort.Strings(providers)

	parts := make([]string, 0, len(providers))
	for _, p := range providers {
		parts = append(parts, fmt.Sprintf("%s: %s", p, strings.Join(e.Available[ProviderName(p)], ", ")))
	}
	return fmt.Sprintf("unknown model %q (available models: %s)", e.Model, strings.Join(parts, "; "))
}

// ErrorKind classifies a failed completion call.
type ErrorKind string

// Error kinds.
const (
	KindRateLimited ErrorKind = "rate_limited"
	KindTooLarge    ErrorKind = "too_large"
	KindOther       ErrorKind = "other"
)

// CallError wraps a failed provider call.
type CallError struct {
	Provider ProviderName
	Model    string
	Kind     ErrorKind
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s call with model %s failed (%s): %v", e.Provider, e.Model, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// NewCallError wraps err, classifying it from its status code and message.
func NewCallError(provider ProviderName, model string, status int, err error) *CallError {
	return &CallError{Provider: provider, Model: model, Kind: Classify(status, err), Err: err}
}

// Classify derives an ErrorKind from an HTTP status and the error text.
// Providers report oversized requests as 413 or as 400/429 with a message
// naming the token limit.
func Classify(status int, err error) ErrorKind {
	msg := ""
	if err != nil {
		msg = strings.ToLower(err.Error())
	}

	switch {
	case status == 413,
		strings.Contains(msg, "request too large"),
		strings.Contains(msg, "context_length_exceeded"),
		strings.Contains(msg, "maximum context length"),
		strings.Contains(msg, "prompt is too long"):
		return KindTooLarge
	case status == 429,
		strings.Contains(msg, "rate_limit_exceeded"),
		strings.Contains(msg, "rate limit"):
		return KindRateLimited
	}
	return KindOther
}

func kindOf(err error) ErrorKind {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsRateLimited reports whether err is a rate-limited provider call.
func IsRateLimited(err error) bool { return kindOf(err) == KindRateLimited }

// IsTooLarge reports whether err is a provider call rejected for size.
func IsTooLarge(err error) bool { return kindOf(err) == KindTooLarge }

// IsContextReducible reports whether retrying with less context may succeed.
func IsContextReducible(err error) bool {
	k := kindOf(err)
	return k == KindRateLimited || k == KindTooLarge
}
