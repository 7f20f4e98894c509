package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/app"
	"github.com/ad-tracker/video-summarizer-go/internal/config"
	"github.com/ad-tracker/video-summarizer-go/internal/queue"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("worker")

	if cfg.Redis.URL == "" {
		return fmt.Errorf("redis.url is required to run the summary worker")
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Dispatcher.Configured() {
		log.Warn("No AI provider configured, summary tasks will fail without retry")
	}

	server, err := queue.NewServer(cfg.Redis.URL, cfg.Worker.Concurrency, queue.NewSummaryHandler(a.Summaries))
	if err != nil {
		return fmt.Errorf("create queue server: %w", err)
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("start queue server: %w", err)
	}
	log.Info("Summary worker started", zap.Int("concurrency", cfg.Worker.Concurrency))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown

	log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	server.Stop()
	log.Info("Summary worker stopped gracefully")
	return nil
}
