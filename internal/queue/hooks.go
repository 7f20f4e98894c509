package queue

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// LogTaskError reports a failed task attempt. It is installed as the asynq
// server's ErrorHandler.
func LogTaskError(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	taskID, _ := asynq.GetTaskID(ctx)

	fields := []zap.Field{
		zap.String("taskType", task.Type()),
		zap.String("taskId", taskID),
		zap.Int("retry", retried),
		zap.Int("maxRetry", maxRetry),
		zap.Error(err),
	}
	if payload, perr := UnmarshalGenerateSummaryPayload(task.Payload()); perr == nil {
		fields = append(fields, zap.String("videoId", payload.VideoID))
	}

	if retried >= maxRetry {
		logger.L().Error("Task exhausted its retries", fields...)
		return
	}
	logger.L().Warn("Task attempt failed", fields...)
}

// asynqLogger routes asynq's internal logging through zap.
type asynqLogger struct {
	sugar *zap.SugaredLogger
}

func newAsynqLogger() *asynqLogger {
	return &asynqLogger{sugar: logger.Named("asynq").Sugar()}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.sugar.Debug(args...) }

func (l *asynqLogger) Info(args ...interface{}) { l.sugar.Info(args...) }

func (l *asynqLogger) Warn(args ...interface{}) { l.sugar.Warn(args...) }

func (l *asynqLogger) Error(args ...interface{}) { l.sugar.Error(args...) }

func (l *asynqLogger) Fatal(args ...interface{}) { l.sugar.Fatal(args...) }
