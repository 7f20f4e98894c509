// Package app assembles the storage, provider and service graph shared by
// the server and worker binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/config"
	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/db/repository"
	"github.com/ad-tracker/video-summarizer-go/internal/metrics"
	"github.com/ad-tracker/video-summarizer-go/internal/queue"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/service/anthropic"
	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
	"github.com/ad-tracker/video-summarizer-go/internal/service/openai"
	"github.com/ad-tracker/video-summarizer-go/internal/service/summarizer"
	"github.com/ad-tracker/video-summarizer-go/internal/service/transcripts"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

const redisPingTimeout = 3 * time.Second

// Repositories groups the PostgreSQL repositories.
type Repositories struct {
	Channels         repository.ChannelRepository
	Videos           repository.VideoRepository
	Transcripts      repository.TranscriptRepository
	Summaries        repository.SummaryRepository
	ChapterSummaries repository.ChapterSummaryRepository
	Prompts          repository.PromptRepository
	Chats            repository.ChatRepository
	Settings         repository.SettingsRepository
}

// App holds the long-lived dependencies of a process.
type App struct {
	Config     *config.Config
	Pool       *pgxpool.Pool
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Repos      Repositories
	Dispatcher *summarizer.Dispatcher
	Publisher  service.EventPublisher
	Summaries  *service.SummaryService

	// Redis is nil when no Redis URL is configured or it is unreachable.
	Redis *redis.Client
	// Transcripts is the transcript source used by imports: the stored
	// transcript, bounded by the fetch timeout and optionally cached.
	// A remote captions fetcher (for example yt-dlp --write-auto-sub output
	// parsed with transcript.ParseVTT) replaces the StoreFetcher here; the
	// timeout and cache wrap whatever Fetcher sits underneath.
	Transcripts transcripts.Fetcher
	// TranscriptCache is nil when caching is off.
	TranscriptCache *transcripts.RedisCache
}

// New connects to storage and builds the shared services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Named("app")

	pool, err := db.NewPool(ctx, db.FromAppConfig(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	log.Info("Database connection established", zap.Int32("maxConns", pool.Config().MaxConns))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	a := &App{
		Config:   cfg,
		Pool:     pool,
		Registry: reg,
		Metrics:  m,
		Repos: Repositories{
			Channels:         repository.NewChannelRepository(pool),
			Videos:           repository.NewVideoRepository(pool),
			Transcripts:      repository.NewTranscriptRepository(pool),
			Summaries:        repository.NewSummaryRepository(pool),
			ChapterSummaries: repository.NewChapterSummaryRepository(pool),
			Prompts:          repository.NewPromptRepository(pool),
			Chats:            repository.NewChatRepository(pool),
			Settings:         repository.NewSettingsRepository(pool),
		},
	}

	providers := Providers(cfg)
	if len(providers) == 0 {
		log.Warn("No AI provider API key configured, summarization requests will fail")
	}
	a.Dispatcher = summarizer.NewDispatcher(providers, SummarizerDefaults(cfg.Summarizer), a.Repos.Settings, m)

	a.Publisher = newPublisher(cfg.RabbitMQ)
	a.Redis = newRedis(ctx, cfg.Redis.URL)

	source := transcripts.WithTimeout(transcripts.NewStoreFetcher(a.Repos.Transcripts), cfg.Transcript.FetchTimeout)
	if a.Redis != nil && cfg.Redis.CacheTranscripts {
		a.TranscriptCache = transcripts.NewRedisCache(source, a.Redis, cfg.Redis.TranscriptTTL, m)
		source = a.TranscriptCache
		log.Info("Transcript cache enabled", zap.Duration("ttl", cfg.Redis.TranscriptTTL))
	}
	a.Transcripts = source

	a.Summaries = service.NewSummaryService(service.SummaryDeps{
		Videos:           a.Repos.Videos,
		Transcripts:      a.Repos.Transcripts,
		Summaries:        a.Repos.Summaries,
		ChapterSummaries: a.Repos.ChapterSummaries,
		Prompts:          a.Repos.Prompts,
		Summarizer:       a.Dispatcher,
		Publisher:        a.Publisher,
		Metrics:          m,
	})

	return a, nil
}

// Close releases every connection held by the App.
func (a *App) Close() {
	log := logger.Named("app")

	if err := a.Publisher.Close(); err != nil {
		log.Warn("Failed to close event publisher", zap.Error(err))
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	db.Close(a.Pool)
}

// Providers builds the LLM providers that have an API key, each behind its
// request limiter.
func Providers(cfg *config.Config) []llm.Provider {
	var providers []llm.Provider

	if cfg.OpenAI.APIKey != "" {
		client := openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: cfg.OpenAI.Timeout,
		})
		providers = append(providers, llm.WithRateLimit(client, cfg.OpenAI.RequestsPerMinute))
	}

	if cfg.Anthropic.APIKey != "" {
		client := anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.Anthropic.APIKey,
			BaseURL: cfg.Anthropic.BaseURL,
			Timeout: cfg.Anthropic.Timeout,
		})
		providers = append(providers, llm.WithRateLimit(client, cfg.Anthropic.RequestsPerMinute))
	}

	return providers
}

// SummarizerDefaults converts the summarizer config section into the
// settings used when nothing is stored.
func SummarizerDefaults(c config.SummarizerConfig) models.SummarizerSettings {
	return models.SummarizerSettings{
		Model:             c.Model,
		MaxTokens:         c.MaxTokens,
		Temperature:       c.Temperature,
		PreferredProvider: c.PreferredProvider,
		ChapterAwareness:  c.ChapterAwareness,
		MetadataInclusion: c.MetadataInclusion,
		ClickableChapters: c.ClickableChapters,
	}
}

// ImportDefaults converts the import config section into the settings used
// when nothing is stored. Transcript extraction is always on by default.
func ImportDefaults(c config.ImportConfig) models.ImportSettings {
	return models.ImportSettings{
		TranscriptExtraction: true,
		AutoSummary:          c.AutoSummary,
		ChapterExtraction:    c.ChapterExtraction,
	}
}

func newPublisher(cfg config.RabbitMQConfig) service.EventPublisher {
	log := logger.Named("app")

	if !cfg.Enabled {
		log.Info("RabbitMQ disabled, summary events will not be published")
		return service.NoopPublisher{}
	}

	publisher, err := service.NewMessagePublisher(&cfg)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ, summary events will not be published", zap.Error(err))
		return service.NoopPublisher{}
	}

	log.Info("RabbitMQ publisher connected",
		zap.String("exchange", cfg.Exchange),
		zap.String("host", cfg.Host),
	)
	return publisher
}

func newRedis(ctx context.Context, url string) *redis.Client {
	log := logger.Named("app")

	if url == "" {
		return nil
	}

	client, err := queue.NewRedisClient(url)
	if err != nil {
		log.Warn("Invalid redis URL, transcript cache disabled", zap.Error(err))
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, transcript cache disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}
