// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "summarizer"

// LLM call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeTooLarge    = "too_large"
	OutcomeError       = "error"
)

// Metrics groups the service collectors. The zero value is not usable; build
// one with New.
type Metrics struct {
	LLMRequests         *prometheus.CounterVec
	LLMRequestDuration  *prometheus.HistogramVec
	SummariesCreated    *prometheus.CounterVec
	ChatTruncations     prometheus.Counter
	TranscriptCacheHits *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration, which keeps tests free of global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "LLM completion requests by provider, model and outcome.",
		}, []string{"provider", "model", "outcome"}),
		LLMRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Latency of LLM completion requests.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"provider"}),
		SummariesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_created_total",
			Help:      "Summary versions stored, by kind (video or chapter).",
		}, []string{"kind"}),
		ChatTruncations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_context_truncations_total",
			Help:      "Chat contexts that hit the summary or character budget.",
		}),
		TranscriptCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcript_cache_hits_total",
			Help:      "Transcript cache lookups by result (hit or miss).",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.LLMRequests,
			m.LLMRequestDuration,
			m.SummariesCreated,
			m.ChatTruncations,
			m.TranscriptCacheHits,
			m.HTTPRequests,
			m.HTTPRequestDuration,
		)
	}
	return m
}

// ObserveLLM records one completion call.
func (m *Metrics) ObserveLLM(provider, model, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.LLMRequests.WithLabelValues(provider, model, outcome).Inc()
	m.LLMRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// SummaryCreated counts a stored summary version.
func (m *Metrics) SummaryCreated(kind string) {
	if m == nil {
		return
	}
	m.SummariesCreated.WithLabelValues(kind).Inc()
}

// ChatTruncated counts a truncated chat context.
func (m *Metrics) ChatTruncated() {
	if m == nil {
		return
	}
	m.ChatTruncations.Inc()
}

// TranscriptCache records a cache lookup.
func (m *Metrics) TranscriptCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.TranscriptCacheHits.WithLabelValues(result).Inc()
}
