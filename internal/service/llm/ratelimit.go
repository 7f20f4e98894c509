package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimited throttles calls to a provider.
type rateLimited struct {
	Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps p so at most requestsPerMinute calls start per minute.
// A non-positive limit returns p unchanged.
func WithRateLimit(p Provider, requestsPerMinute int) Provider {
	if requestsPerMinute <= 0 {
		return p
	}
	perSecond := rate.Limit(float64(requestsPerMinute) / 60)
	return &rateLimited{Provider: p, limiter: rate.NewLimiter(perSecond, max(1, requestsPerMinute/10))}
}

func (r *rateLimited) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s rate limiter: %w", r.Name(), err)
	}
	return r.Provider.Complete(ctx, req)
}
