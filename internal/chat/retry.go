package chat

import (
	"context"
	"errors"

	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
)

// Reducer shrinks a context item list for a retry.
type Reducer func(items []Item) []Item

// KeepMostRecent keeps the first n items. Callers order items newest first.
func KeepMostRecent(n int) Reducer {
	return func(items []Item) []Item {
		if len(items) <= n {
			return items
		}
		return items[:n]
	}
}

// RetryPolicy bounds how often a chat call is retried and how the context
// shrinks between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Reduce      Reducer
	// Retryable decides whether an error is worth a reduced retry.
	Retryable func(error) bool
}

// DefaultRetryPolicy retries once with the two most recent summaries when the
// provider rejects the request for size or rate.
func DefaultRetryPolicy(keep int) RetryPolicy {
	if keep <= 0 {
		keep = 2
	}
	return RetryPolicy{
		MaxAttempts: 2,
		Reduce:      KeepMostRecent(keep),
		Retryable:   llm.IsContextReducible,
	}
}

// Attempt is one call made under the policy.
type Attempt func(ctx context.Context, items []Item, reduced bool) (string, error)

// Outcome describes a successful call.
type Outcome struct {
	Text    string
	Items   []Item
	Reduced bool
}

// ErrNotReducible is joined to the last error when the reducer cannot shrink
// the context any further.
var ErrNotReducible = errors.New("context cannot be reduced further")

// Do runs fn, retrying with reduced items while the error is retryable, the
// reducer makes progress and attempts remain.
func (p RetryPolicy) Do(ctx context.Context, items []Item, fn Attempt) (*Outcome, error) {
	attempts := max(1, p.MaxAttempts)
	reduced := false

	var lastErr error
	for i := 0; i < attempts; i++ {
		text, err := fn(ctx, items, reduced)
		if err == nil {
			return &Outcome{Text: text, Items: items, Reduced: reduced}, nil
		}
		lastErr = err

		if i == attempts-1 || p.Reduce == nil || p.Retryable == nil || !p.Retryable(err) {
			break
		}
		next := p.Reduce(items)
		if len(next) >= len(items) {
			return nil, errors.Join(err, ErrNotReducible)
		}
		items = next
		reduced = true
	}
	return nil, lastErr
}
