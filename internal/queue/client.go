package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// Queue names
const (
	QueueDefault = "default"
)

// uniqueWindow suppresses duplicate summary tasks for the same video while
// one is pending.
const uniqueWindow = 10 * time.Minute

// Client wraps asynq client for enqueueing tasks
type Client struct {
	asynqClient *asynq.Client
}

// NewClient creates a new queue client
func NewClient(redisURL string) (*Client, error) {
	// Parse Redis URL to extract connection details (host, password, db, TLS)
	redisOpt, err := ParseRedisURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &Client{asynqClient: asynq.NewClient(redisOpt)}, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.asynqClient.Close()
}

// EnqueueSummary enqueues a summary generation task. A task already pending
// for the same video and force flag is not duplicated.
func (c *Client) EnqueueSummary(ctx context.Context, videoID, source string, force bool) error {
	payload, err := NewGenerateSummaryTask(videoID, source, force)
	if err != nil {
		return fmt.Errorf("failed to create task payload: %w", err)
	}

	payloadBytes, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeGenerateSummary, payloadBytes)

	info, err := c.asynqClient.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Queue(QueueDefault),
		asynq.Unique(uniqueWindow),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			logger.L().Debug("Summary task already queued", zap.String("videoId", videoID))
			return nil
		}
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	logger.L().Info("Enqueued summary generation",
		zap.String("videoId", videoID),
		zap.String("taskId", info.ID),
		zap.String("source", payload.Source),
	)

	return nil
}
