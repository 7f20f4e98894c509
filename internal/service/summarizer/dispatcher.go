// Package summarizer turns transcripts into summaries through the configured
// LLM providers.
package summarizer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/metrics"
	"github.com/ad-tracker/video-summarizer-go/internal/prompt"
	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
	"github.com/ad-tracker/video-summarizer-go/internal/transcript"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// ChapterMaxTokens caps the output of single-chapter summaries.
const ChapterMaxTokens = 4096

// SettingsLoader returns the runtime summarizer settings, overlaying stored
// values onto defaults. repository.SettingsRepository satisfies it.
type SettingsLoader interface {
	GetSummarizerSettings(ctx context.Context, defaults models.SummarizerSettings) (models.SummarizerSettings, error)
}

// Request is a whole-video summarization request.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Request struct {
	// Content is the flat transcript text.
	Content string
	// Entries, when present, are rendered per chapter instead of
	// re-parsing timestamps out of Content.
	Entries      []models.TranscriptEntry
	Chapters     []models.Chapter
	Model        string
	VideoID      string
	VideoInfo    *models.VideoInfo
	CustomPrompt string
}

// ChapterRequest summarizes one chapter window.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChapterRequest struct {
	VideoID      string
	ChapterTitle string
	Transcript   string
	// Template is the stored chapter prompt, if any.
	Template  string
	Model     string
	VideoInfo *models.VideoInfo
}

// Result is a completed summarization.
type Result struct {
	Text     string
	Model    string
	Provider llm.ProviderName
}

// Dispatcher routes summarization requests to a provider and post-processes
// the output.
type Dispatcher struct {
	providers map[llm.ProviderName]llm.Provider
	catalog   llm.Catalog
	defaults  models.SummarizerSettings
	settings  SettingsLoader
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher over the configured providers. Providers
// without credentials are simply left out. settings and m may be nil.
func NewDispatcher(providers []llm.Provider, defaults models.SummarizerSettings, settings SettingsLoader, m *metrics.Metrics) *Dispatcher {
	d := &Dispatcher{
		providers: make(map[llm.ProviderName]llm.Provider, len(providers)),
		catalog:   llm.DefaultCatalog(),
		defaults:  defaults,
		settings:  settings,
		metrics:   m,
		logger:    logger.Named("summarizer"),
	}
	for _, p := range providers {
		d.providers[p.Name()] = p
		if served := p.Models(); len(served) > 0 {
			d.catalog[p.Name()] = served
		}
	}
	return d
}

// Settings returns the effective settings. A failing store falls back to the
// defaults.
func (d *Dispatcher) Settings(ctx context.Context) models.SummarizerSettings {
	if d.settings == nil {
		return d.defaults
	}
	s, err := d.settings.GetSummarizerSettings(ctx, d.defaults)
	if err != nil {
		d.logger.Warn("Failed to load summarizer settings, using defaults", zap.Error(err))
		return d.defaults
	}
	return s
}

// AvailableModels lists the models of every configured provider.
func (d *Dispatcher) AvailableModels() map[llm.ProviderName][]string {
	out := make(map[llm.ProviderName][]string, len(d.providers))
	for name := range d.providers {
		out[name] = append([]string(nil), d.catalog[name]...)
	}
	return out
}

// Configured reports whether at least one provider is usable.
func (d *Dispatcher) Configured() bool {
	return len(d.providers) > 0
}

// Summarize produces a post-processed whole-video summary.
func (d *Dispatcher) Summarize(ctx context.Context, req Request) (*Result, error) {
	settings := d.Settings(ctx)

	provider, model, err := d.selectProvider(req.Model, settings)
	if err != nil {
		return nil, err
	}

	content := req.Content
	chapterAware := settings.ChapterAwareness && len(req.Chapters) > 1 && req.CustomPrompt == ""
	if chapterAware {
		if len(req.Entries) > 0 {
			content = transcript.ToPromptText(req.Entries, req.Chapters)
		} else {
			content = transcript.OrganizeByChapters(content, req.Chapters)
		}
	}

	promptChapters := req.Chapters
	if !settings.ChapterAwareness {
		promptChapters = nil
	}

	d.logger.Info("Generating summary",
		zap.String("videoId", req.VideoID),
		zap.String("provider", string(provider.Name())),
		zap.String("model", model),
		zap.Int("chapters", len(req.Chapters)),
		zap.Bool("chapterAware", chapterAware),
		zap.Bool("customPrompt", req.CustomPrompt != ""),
	)

	text, err := d.call(ctx, provider, llm.CompletionRequest{
		Model:       model,
		System:      prompt.SystemPrompt(settings.ChapterAwareness && len(promptChapters) > 0),
		Prompt:      prompt.Build(content, promptChapters, req.CustomPrompt),
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var sections []string
	if settings.ClickableChapters && len(req.Chapters) > 0 && req.VideoID != "" {
		sections = append(sections, ChapterIndex(req.Chapters, req.VideoID))
	}
	if settings.MetadataInclusion && req.VideoInfo != nil {
		sections = append(sections, MetadataBlock(req.VideoInfo))
	}

	return &Result{
		Text:     Assemble(text, sections...),
		Model:    model,
		Provider: provider.Name(),
	}, nil
}

// SummarizeChapter summarizes a single chapter window. Output tokens are
// capped at ChapterMaxTokens.
func (d *Dispatcher) SummarizeChapter(ctx context.Context, req ChapterRequest) (*Result, error) {
	settings := d.Settings(ctx)

	provider, model, err := d.selectProvider(req.Model, settings)
	if err != nil {
		return nil, err
	}

	d.logger.Info("Generating chapter summary",
		zap.String("videoId", req.VideoID),
		zap.String("chapter", req.ChapterTitle),
		zap.String("provider", string(provider.Name())),
		zap.String("model", model),
	)

	text, err := d.call(ctx, provider, llm.CompletionRequest{
		Model:       model,
		System:      prompt.ChapterSystemPrompt,
		Prompt:      prompt.BuildChapter(req.ChapterTitle, req.Transcript, req.Template),
		MaxTokens:   min(settings.MaxTokens, ChapterMaxTokens),
		Temperature: settings.Temperature,
	})
	if err != nil {
		return nil, err
	}

	var sections []string
	if settings.MetadataInclusion && req.VideoInfo != nil {
		sections = append(sections, MetadataBlock(req.VideoInfo))
	}

	return &Result{Text: Assemble(text, sections...), Model: model, Provider: provider.Name()}, nil
}

// Complete sends prompt as-is. It is used by chat, which builds its own
// prompt and skips post-processing.
func (d *Dispatcher) Complete(ctx context.Context, model, userPrompt string) (*Result, error) {
	settings := d.Settings(ctx)

	provider, model, err := d.selectProvider(model, settings)
	if err != nil {
		return nil, err
	}

	text, err := d.call(ctx, provider, llm.CompletionRequest{
		Model:       model,
		Prompt:      userPrompt,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, Model: model, Provider: provider.Name()}, nil
}

// selectProvider resolves a pinned model, or falls back to the preferred
// provider when model is empty.
func (d *Dispatcher) selectProvider(model string, settings models.SummarizerSettings) (llm.Provider, string, error) {
	if model != "" {
		name, err := llm.ResolveModel(model, d.catalog)
		if err != nil {
			return nil, "", err
		}
		p, ok := d.providers[name]
		if !ok {
			return nil, "", &llm.ProviderNotConfiguredError{Provider: name}
		}
		return p, model, nil
	}

	candidates := make([]llm.ProviderName, 0, len(llm.Providers)+1)
	if preferred, ok := llm.ParseProviderName(settings.PreferredProvider); ok {
		candidates = append(candidates, preferred)
	}
	candidates = append(candidates, llm.Providers...)

	for _, name := range candidates {
		p, ok := d.providers[name]
		if !ok {
			continue
		}
		if d.catalog.Contains(name, settings.Model) {
			return p, settings.Model, nil
		}
		return p, d.catalog.First(name), nil
	}

	return nil, "", llm.ErrNoProviderConfigured
}

func (d *Dispatcher) call(ctx context.Context, p llm.Provider, req llm.CompletionRequest) (string, error) {
	start := time.Now()
	text, err := p.Complete(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		var callErr *llm.CallError
		if !errors.As(err, &callErr) {
			err = llm.NewCallError(p.Name(), req.Model, 0, err)
			errors.As(err, &callErr)
		}
		d.metrics.ObserveLLM(string(p.Name()), req.Model, outcome(callErr.Kind), elapsed)
		d.logger.Error("LLM call failed",
			zap.String("provider", string(p.Name())),
			zap.String("model", req.Model),
			zap.String("kind", string(callErr.Kind)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", err
	}

	d.metrics.ObserveLLM(string(p.Name()), req.Model, metrics.OutcomeSuccess, elapsed)
	return text, nil
}

func outcome(kind llm.ErrorKind) string {
	switch kind {
	case llm.KindRateLimited:
		return metrics.OutcomeRateLimited
	case llm.KindTooLarge:
		return metrics.OutcomeTooLarge
	default:
		return metrics.OutcomeError
	}
}
