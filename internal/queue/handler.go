package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
	"github.com/ad-tracker/video-summarizer-go/internal/service/transcripts"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// SummaryGenerator is the part of service.SummaryService the worker needs.
type SummaryGenerator interface {
	GetOrCreateSummary(ctx context.Context, videoID, transcriptText string, chs []models.Chapter, forceRegenerate bool) (*service.SummaryResult, error)
}

// SummaryHandler handles summary generation tasks
type SummaryHandler struct {
	summaries SummaryGenerator
	logger    *zap.Logger
}

// NewSummaryHandler creates a new summary task handler
func NewSummaryHandler(summaries SummaryGenerator) *SummaryHandler {
	return &SummaryHandler{
		summaries: summaries,
		logger:    logger.Named("worker"),
	}
}

// ProcessTask implements asynq.HandlerFunc. Failures that a retry cannot fix
// skip the remaining retries.
func (h *SummaryHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := UnmarshalGenerateSummaryPayload(task.Payload())
	if err != nil {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	h.logger.Info("Processing summary task",
		zap.String("videoId", payload.VideoID),
		zap.String("source", payload.Source),
		zap.Bool("force", payload.Force),
	)

	result, err := h.summaries.GetOrCreateSummary(ctx, payload.VideoID, "", nil, payload.Force)
	if err != nil {
		if permanent(err) {
			h.logger.Warn("Summary task failed permanently",
				zap.String("videoId", payload.VideoID),
				zap.Error(err),
			)
			return fmt.Errorf("generate summary for %s: %w: %w", payload.VideoID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("generate summary for %s: %w", payload.VideoID, err)
	}

	h.logger.Info("Summary task completed",
		zap.String("videoId", payload.VideoID),
		zap.Bool("fromCache", result.FromCache),
	)
	return nil
}

// permanent reports errors caused by missing data or configuration.
func permanent(err error) bool {
	var (
		notFound   *service.NotFoundError
		validation *service.ValidationError
		notConfig  *llm.ProviderNotConfiguredError
		unknown    *llm.UnknownModelError
	)
	return errors.As(err, &notFound) ||
		errors.As(err, &validation) ||
		errors.As(err, &notConfig) ||
		errors.As(err, &unknown) ||
		errors.Is(err, transcripts.ErrNoTranscriptAvailable) ||
		errors.Is(err, llm.ErrNoProviderConfigured)
}
