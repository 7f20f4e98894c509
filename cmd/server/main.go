package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/app"
	"github.com/ad-tracker/video-summarizer-go/internal/config"
	"github.com/ad-tracker/video-summarizer-go/internal/handler"
	"github.com/ad-tracker/video-summarizer-go/internal/middleware"
	"github.com/ad-tracker/video-summarizer-go/internal/queue"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/service/youtube"
	"github.com/ad-tracker/video-summarizer-go/internal/validation"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("server")

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	importDeps := service.ImportDeps{
		Channels:    a.Repos.Channels,
		Videos:      a.Repos.Videos,
		Transcripts: a.Repos.Transcripts,
		Settings:    a.Repos.Settings,
		Source:      a.Transcripts,
	}
	if a.TranscriptCache != nil {
		importDeps.Cache = a.TranscriptCache
	}

	// YouTube API client (optional - only if API key is provided)
	if cfg.YouTube.APIKey != "" {
		yt, err := youtube.NewClient(cfg.YouTube.APIKey)
		if err != nil {
			log.Warn("Failed to initialize YouTube API client, video import will not be available", zap.Error(err))
		} else {
			importDeps.Metadata = yt
		}
	} else {
		log.Info("YouTube API key not configured, video import will not be available")
	}

	// Queue client for automatic summaries (optional - only if Redis is configured)
	if cfg.Redis.URL != "" {
		queueClient, err := queue.NewClient(cfg.Redis.URL)
		if err != nil {
			log.Warn("Failed to initialize queue client, automatic summaries will not be enqueued", zap.Error(err))
		} else {
			defer queueClient.Close()
			importDeps.Enqueuer = queueClient
		}
	}

	importService := service.NewImportService(importDeps, app.ImportDefaults(cfg.Import))
	chatService := service.NewChatService(service.ChatDeps{
		Summaries:  a.Repos.Summaries,
		Channels:   a.Repos.Channels,
		Chats:      a.Repos.Chats,
		Summarizer: a.Dispatcher,
		Metrics:    a.Metrics,
	}, service.ChatOptionsFromConfig(cfg.Chat))

	validator := validation.New(cfg.Validation.MaxMessageLength, cfg.Validation.Enabled)

	handlers := handler.Handlers{
		Health:    handler.NewHealthHandler(a.Pool, a.Publisher),
		Videos:    handler.NewVideoHandler(importService, validator),
		Summaries: handler.NewSummaryHandler(a.Summaries, validator),
		Chat:      handler.NewChatHandler(chatService, validator),
		Prompts:   handler.NewPromptHandler(a.Repos.Prompts),
		Settings:  handler.NewSettingsHandler(a.Dispatcher, a.Repos.Settings, app.ImportDefaults(cfg.Import)),
	}
	if cfg.Metrics.Enabled {
		handlers.Metrics = promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
		handlers.MetricsPath = cfg.Metrics.Path
	}

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handlers, middleware.RequestLogger(), middleware.Metrics(a.Metrics))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting",
			zap.Int("port", cfg.Server.Port),
			zap.Bool("aiConfigured", a.Dispatcher.Configured()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				log.Error("Failed to close server", zap.Error(err))
			}
			return err
		}

		log.Info("Server stopped gracefully")
	}
	return nil
}
