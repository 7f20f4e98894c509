//go:build integration
// +build integration

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ad-tracker/video-summarizer-go/internal/config"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

var (
	loggerInitOnce sync.Once
	loggerInitErr  error
)

func initTestLogger() error {
	loggerInitOnce.Do(func() {
		loggerInitErr = logger.Init("debug", "")
	})
	return loggerInitErr
}

func setupTestRabbitMQ(t *testing.T) (*config.RabbitMQConfig, func()) {
	if err := initTestLogger(); err != nil {
		t.Fatalf("Failed to initialize test logger: %v", err)
	}

	ctx := context.Background()

	rabbitmqContainer, err := rabbitmq.Run(ctx,
		"rabbitmq:3.13-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start rabbitmq container: %v", err)
	}

	host, err := rabbitmqContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get host: %v", err)
	}

	port, err := rabbitmqContainer.MappedPort(ctx, "5672/tcp")
	if err != nil {
		t.Fatalf("Failed to get port: %v", err)
	}

	cfg := &config.RabbitMQConfig{
		Enabled:    true,
		Host:       host,
		Port:       port.Int(),
		User:       "guest",
		Password:   "guest",
		Exchange:   "test.summaries",
		Queue:      "test.summaries.events",
		RoutingKey: "summary.#",
	}

	cleanup := func() {
		if err := rabbitmqContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return cfg, cleanup
}

func TestMessagePublisher_PublishSummaryEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	time.Sleep(2 * time.Second)

	mp, err := NewMessagePublisher(cfg)
	if err != nil {
		t.Fatalf("NewMessagePublisher() error = %v", err)
	}
	defer mp.Close()

	ctx := context.Background()
	event := models.NewSummaryEvent(models.SummaryEventCreated, "dQw4w9WgXcQ", 42)
	event.VersionNumber = 3
	event.ModelUsed = "gpt-4.1"

	if err := mp.PublishSummaryEvent(ctx, event); err != nil {
		t.Fatalf("PublishSummaryEvent() error = %v", err)
	}

	conn, err := amqp.Dial(fmt.Sprintf("amqp://guest:guest@%s:%d/", cfg.Host, cfg.Port))
	if err != nil {
		t.Fatalf("dial consumer: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("open consumer channel: %v", err)
	}
	defer ch.Close()

	var msg amqp.Delivery
	var ok bool
	for i := 0; i < 20 && !ok; i++ {
		msg, ok, err = ch.Get(cfg.Queue, true)
		if err != nil {
			t.Fatalf("get message: %v", err)
		}
		if !ok {
			time.Sleep(100 * time.Millisecond)
		}
	}
	if !ok {
		t.Fatal("no message delivered to the bound queue")
	}

	if msg.RoutingKey != string(models.SummaryEventCreated) {
		t.Errorf("routing key = %q, want %q", msg.RoutingKey, models.SummaryEventCreated)
	}

	var got models.SummaryEvent
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if got.ID != event.ID || got.SummaryID != 42 || got.VersionNumber != 3 {
		t.Errorf("decoded event = %+v, want id %s summary 42 version 3", got, event.ID)
	}
}

func TestMessagePublisher_IsHealthy(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	time.Sleep(2 * time.Second)

	mp, err := NewMessagePublisher(cfg)
	if err != nil {
		t.Fatalf("NewMessagePublisher() error = %v", err)
	}

	if !mp.IsHealthy() {
		t.Error("IsHealthy() = false, want true")
	}

	mp.Close()
	if mp.IsHealthy() {
		t.Error("IsHealthy() after Close() = true, want false")
	}
}

func TestMessagePublisher_ClosedConnection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, cleanup := setupTestRabbitMQ(t)
	defer cleanup()

	time.Sleep(2 * time.Second)

	mp, err := NewMessagePublisher(cfg)
	if err != nil {
		t.Fatalf("NewMessagePublisher() error = %v", err)
	}
	defer mp.Close()

	if mp.conn != nil {
		mp.conn.Close()
	}

	// must fail without panicking
	err = mp.PublishSummaryEvent(context.Background(), models.NewSummaryEvent(models.SummaryEventDeleted, "dQw4w9WgXcQ", 1))
	if err == nil {
		t.Error("PublishSummaryEvent() on closed connection succeeded")
	}
}
