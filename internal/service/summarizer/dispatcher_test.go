package summarizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/metrics"
	"github.com/ad-tracker/video-summarizer-go/internal/prompt"
	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
)

type fakeProvider struct {
	name   llm.ProviderName
	models []string
	reply  string
	err    error

	mu    sync.Mutex
	calls []llm.CompletionRequest
}

func (f *fakeProvider) Name() llm.ProviderName { return f.name }
func (f *fakeProvider) Models() []string        { return f.models }

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeProvider) last(t *testing.T) llm.CompletionRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

type staticSettings struct {
	s   *models.SummarizerSettings
	err error
}

func (s staticSettings) GetSummarizerSettings(_ context.Context, defaults models.SummarizerSettings) (models.SummarizerSettings, error) {
	if s.err != nil {
		return defaults, s.err
	}
	if s.s != nil {
		return *s.s, nil
	}
	return defaults, nil
}

func defaultSettings() models.SummarizerSettings {
	return models.SummarizerSettings{
		Model:             "gpt-4.1",
		MaxTokens:         8192,
		Temperature:       0.7,
		PreferredProvider: "openai",
		ChapterAwareness:  true,
		MetadataInclusion: true,
		ClickableChapters: true,
	}
}

func openAI() *fakeProvider {
	return &fakeProvider{name: llm.OpenAI, models: llm.DefaultCatalog()[llm.OpenAI], reply: "openai summary"}
}

func anthropicProvider() *fakeProvider {
	return &fakeProvider{name: llm.Anthropic, models: llm.DefaultCatalog()[llm.Anthropic], reply: "anthropic summary"}
}

func threeChapters() []models.Chapter {
	return []models.Chapter{{Title: "Intro", Time: 0}, {Title: "Setup", Time: 60}, {Title: "Wrap up", Time: 125}}
}

func TestDispatcher_ProviderSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("pinned claude model routes to anthropic", func(t *testing.T) {
		oa, an := openAI(), anthropicProvider()
		d := NewDispatcher([]llm.Provider{oa, an}, defaultSettings(), nil, nil)

		res, err := d.Summarize(ctx, Request{Content: "text", Model: "claude-sonnet-4-20250514"})
		require.NoError(t, err)
		assert.Equal(t, llm.Anthropic, res.Provider)
		assert.Equal(t, "claude-sonnet-4-20250514", res.Model)
		assert.Empty(t, oa.calls)
	})

	t.Run("pinned model for unconfigured provider", func(t *testing.T) {
		d := NewDispatcher([]llm.Provider{openAI()}, defaultSettings(), nil, nil)

		_, err := d.Summarize(ctx, Request{Content: "text", Model: "claude-3-5-sonnet-20241022"})
		var notConfigured *llm.ProviderNotConfiguredError
		require.ErrorAs(t, err, &notConfigured)
		assert.Equal(t, llm.Anthropic, notConfigured.Provider)
	})

	t.Run("unknown model", func(t *testing.T) {
		d := NewDispatcher([]llm.Provider{openAI()}, defaultSettings(), nil, nil)

		_, err := d.Summarize(ctx, Request{Content: "text", Model: "mistral-large"})
		var unknown *llm.UnknownModelError
		require.ErrorAs(t, err, &unknown)
	})

	t.Run("preferred provider wins when configured", func(t *testing.T) {
		s := defaultSettings()
		s.PreferredProvider = "anthropic"
		d := NewDispatcher([]llm.Provider{openAI(), anthropicProvider()}, s, nil, nil)

		res, err := d.Summarize(ctx, Request{Content: "text"})
		require.NoError(t, err)
		assert.Equal(t, llm.Anthropic, res.Provider)
		assert.Equal(t, "claude-sonnet-4-20250514", res.Model, "settings model belongs to openai, so the first anthropic model is used")
	})

	t.Run("falls back to openai when preferred is missing", func(t *testing.T) {
		s := defaultSettings()
		s.PreferredProvider = "anthropic"
		d := NewDispatcher([]llm.Provider{openAI()}, s, nil, nil)

		res, err := d.Summarize(ctx, Request{Content: "text"})
		require.NoError(t, err)
		assert.Equal(t, llm.OpenAI, res.Provider)
		assert.Equal(t, "gpt-4.1", res.Model)
	})

	t.Run("falls back to anthropic when only it is configured", func(t *testing.T) {
		d := NewDispatcher([]llm.Provider{anthropicProvider()}, defaultSettings(), nil, nil)

		res, err := d.Summarize(ctx, Request{Content: "text"})
		require.NoError(t, err)
		assert.Equal(t, llm.Anthropic, res.Provider)
	})

	t.Run("no provider configured", func(t *testing.T) {
		d := NewDispatcher(nil, defaultSettings(), nil, nil)

		_, err := d.Summarize(ctx, Request{Content: "text"})
		assert.ErrorIs(t, err, llm.ErrNoProviderConfigured)
		assert.False(t, d.Configured())
	})
}

func TestDispatcher_Summarize_Routing(t *testing.T) {
	ctx := context.Background()
	content := "[00:00] hello\n[01:05] installing\n[02:10] done"

	t.Run("chapter aware with multiple chapters", func(t *testing.T) {
		oa := openAI()
		d := NewDispatcher([]llm.Provider{oa}, defaultSettings(), nil, nil)

		_, err := d.Summarize(ctx, Request{Content: content, Chapters: threeChapters()})
		require.NoError(t, err)

		req := oa.last(t)
		assert.Equal(t, prompt.SystemPrompt(true), req.System)
		assert.Contains(t, req.Prompt, "This video has 3 chapters")
		assert.Contains(t, req.Prompt, "=== Setup (starts at 01:00) ===")
		assert.Equal(t, 8192, req.MaxTokens)
		assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	})

	t.Run("entries are rendered per chapter", func(t *testing.T) {
		oa := openAI()
		d := NewDispatcher([]llm.Provider{oa}, defaultSettings(), nil, nil)

		entries := []models.TranscriptEntry{{Time: 0, Text: "hello"}, {Time: 70, Text: "installing"}}
		_, err := d.Summarize(ctx, Request{Content: "ignored", Entries: entries, Chapters: threeChapters()})
		require.NoError(t, err)

		req := oa.last(t)
		assert.Contains(t, req.Prompt, "[01:10] installing")
		assert.NotContains(t, req.Prompt, "ignored")
	})

	t.Run("custom prompt bypasses chapter routing", func(t *testing.T) {
		oa := openAI()
		d := NewDispatcher([]llm.Provider{oa}, defaultSettings(), nil, nil)

		_, err := d.Summarize(ctx, Request{Content: content, Chapters: threeChapters(), CustomPrompt: "Just list the tools."})
		require.NoError(t, err)

		req := oa.last(t)
		assert.True(t, strings.HasPrefix(req.Prompt, "Just list the tools.\n\n"))
		assert.True(t, strings.HasSuffix(req.Prompt, content))
		assert.NotContains(t, req.Prompt, "=== Intro")
	})

	t.Run("awareness disabled sends no chapters", func(t *testing.T) {
		oa := openAI()
		s := defaultSettings()
		s.ChapterAwareness = false
		d := NewDispatcher([]llm.Provider{oa}, s, nil, nil)

		_, err := d.Summarize(ctx, Request{Content: content, Chapters: threeChapters()})
		require.NoError(t, err)

		req := oa.last(t)
		assert.Equal(t, prompt.SystemPrompt(false), req.System)
		assert.NotContains(t, req.Prompt, "chapters with distinct topics")
		assert.NotContains(t, req.Prompt, "Chapter structure")
	})

	t.Run("stored settings override defaults", func(t *testing.T) {
		oa := openAI()
		stored := defaultSettings()
		stored.Model = "gpt-4.1-mini"
		stored.MaxTokens = 2000
		d := NewDispatcher([]llm.Provider{oa}, defaultSettings(), staticSettings{s: &stored}, nil)

		res, err := d.Summarize(ctx, Request{Content: "text"})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4.1-mini", res.Model)
		assert.Equal(t, 2000, oa.last(t).MaxTokens)
	})

	t.Run("settings store failure uses defaults", func(t *testing.T) {
		d := NewDispatcher([]llm.Provider{openAI()}, defaultSettings(), staticSettings{err: errors.New("db down")}, nil)
		assert.Equal(t, defaultSettings(), d.Settings(ctx))
	})
}

func TestDispatcher_Summarize_PostProcessing(t *testing.T) {
	ctx := context.Background()
	duration := 754
	views := int64(1234567)
	info := &models.VideoInfo{Title: "Go Tips", ChannelName: "Gophers", DurationSeconds: &duration, ViewCount: &views}

	t.Run("chapter index then metadata then summary", func(t *testing.T) {
		d := NewDispatcher([]llm.Provider{openAI()}, defaultSettings(), nil, nil)

		res, err := d.Summarize(ctx, Request{Content: "c", Chapters: threeChapters(), VideoID: "abc123def45", VideoInfo: info})
		require.NoError(t, err)

		parts := strings.Split(res.Text, "\n\n")
		require.GreaterOrEqual(t, len(parts), 4)
		assert.Equal(t, "📚 **Video Chapters** (3 chapters):", parts[0])
		assert.Contains(t, parts[1], "• [Setup](https://www.youtube.com/watch?v=abc123def45&t=60s) - 01:00")
		assert.Equal(t, "📹 **Video Information**:", parts[2])
		assert.Contains(t, parts[3], "**Views**: 1,234,567")
		assert.Contains(t, parts[3], "**Duration**: 12:34")
		assert.True(t, strings.HasSuffix(res.Text, "\n\nopenai summary"))
	})

	t.Run("no video id skips chapter index", func(t *testing.T) {
		d := NewDispatcher([]llm.Provider{openAI()}, defaultSettings(), nil, nil)

		res, err := d.Summarize(ctx, Request{Content: "c", Chapters: threeChapters()})
		require.NoError(t, err)
		assert.Equal(t, "openai summary", res.Text)
	})

	t.Run("toggles disabled", func(t *testing.T) {
		s := defaultSettings()
		s.ClickableChapters = false
		s.MetadataInclusion = false
		d := NewDispatcher([]llm.Provider{openAI()}, s, nil, nil)

		res, err := d.Summarize(ctx, Request{Content: "c", Chapters: threeChapters(), VideoID: "abc123def45", VideoInfo: info})
		require.NoError(t, err)
		assert.Equal(t, "openai summary", res.Text)
	})
}

func TestDispatcher_SummarizeChapter(t *testing.T) {
	ctx := context.Background()

	t.Run("caps max tokens and uses stored template", func(t *testing.T) {
		oa := openAI()
		d := NewDispatcher([]llm.Provider{oa}, defaultSettings(), nil, nil)

		res, err := d.SummarizeChapter(ctx, ChapterRequest{
			VideoID:      "abc123def45",
			ChapterTitle: "Setup",
			Transcript:   "install go",
			Template:     "Summarize {chapter_title}: {chapter_transcript}",
		})
		require.NoError(t, err)
		assert.Equal(t, "openai summary", res.Text)

		req := oa.last(t)
		assert.Equal(t, ChapterMaxTokens, req.MaxTokens)
		assert.Equal(t, prompt.ChapterSystemPrompt, req.System)
		assert.Equal(t, "Summarize Setup: install go", req.Prompt)
	})

	t.Run("smaller configured limit is kept", func(t *testing.T) {
		oa := openAI()
		s := defaultSettings()
		s.MaxTokens = 1000
		d := NewDispatcher([]llm.Provider{oa}, s, nil, nil)

		_, err := d.SummarizeChapter(ctx, ChapterRequest{ChapterTitle: "Setup", Transcript: "x"})
		require.NoError(t, err)
		assert.Equal(t, 1000, oa.last(t).MaxTokens)
		assert.Contains(t, oa.last(t).Prompt, "Chapter Title: Setup")
	})
}

func TestDispatcher_Complete(t *testing.T) {
	oa := openAI()
	d := NewDispatcher([]llm.Provider{oa}, defaultSettings(), nil, nil)

	res, err := d.Complete(context.Background(), "gpt-4.1-mini", "raw prompt")
	require.NoError(t, err)
	assert.Equal(t, "openai summary", res.Text)
	assert.Equal(t, "gpt-4.1-mini", res.Model)
	assert.Empty(t, oa.last(t).System)
	assert.Equal(t, "raw prompt", oa.last(t).Prompt)
}

func TestDispatcher_CallErrors(t *testing.T) {
	m := metrics.New(nil)

	t.Run("plain errors are wrapped", func(t *testing.T) {
		oa := openAI()
		oa.err = errors.New("connection reset")
		d := NewDispatcher([]llm.Provider{oa}, defaultSettings(), nil, m)

		_, err := d.Summarize(context.Background(), Request{Content: "c"})
		var callErr *llm.CallError
		require.ErrorAs(t, err, &callErr)
		assert.Equal(t, llm.KindOther, callErr.Kind)
		assert.Equal(t, llm.OpenAI, callErr.Provider)
	})

	t.Run("classified errors pass through", func(t *testing.T) {
		oa := openAI()
		oa.err = llm.NewCallError(llm.OpenAI, "gpt-4.1", 429, errors.New("slow down"))
		d := NewDispatcher([]llm.Provider{oa}, defaultSettings(), nil, m)

		_, err := d.Summarize(context.Background(), Request{Content: "c"})
		assert.True(t, llm.IsRateLimited(err))
	})

	assert.InDelta(t, 1, testutil.ToFloat64(m.LLMRequests.WithLabelValues("openai", "gpt-4.1", metrics.OutcomeRateLimited)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LLMRequests.WithLabelValues("openai", "gpt-4.1", metrics.OutcomeError)), 0)
}

func TestDispatcher_AvailableModels(t *testing.T) {
	d := NewDispatcher([]llm.Provider{anthropicProvider()}, defaultSettings(), nil, nil)

	got := d.AvailableModels()
	assert.Len(t, got, 1)
	assert.Equal(t, llm.DefaultCatalog()[llm.Anthropic], got[llm.Anthropic])
}
