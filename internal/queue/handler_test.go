package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
	"github.com/ad-tracker/video-summarizer-go/internal/service/transcripts"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GetOrCreateSummary(ctx context.Context, videoID, transcriptText string, chs []models.Chapter, force bool) (*service.SummaryResult, error) {
	args := m.Called(ctx, videoID, transcriptText, chs, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SummaryResult), args.Error(1)
}

func summaryTask(t *testing.T, videoID string, force bool) *asynq.Task {
	t.Helper()
	payload, err := NewGenerateSummaryTask(videoID, "import", force)
	require.NoError(t, err)
	data, err := payload.Marshal()
	require.NoError(t, err)
	return asynq.NewTask(TypeGenerateSummary, data)
}

func TestSummaryHandler_ProcessTask(t *testing.T) {
	require.NoError(t, logger.Init("error", ""))
	ctx := context.Background()
	var noChapters []models.Chapter

	t.Run("generates the summary", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("GetOrCreateSummary", ctx, "dQw4w9WgXcQ", "", noChapters, true).
			Return(&service.SummaryResult{Text: "summary"}, nil)

		err := NewSummaryHandler(gen).ProcessTask(ctx, summaryTask(t, "dQw4w9WgXcQ", true))
		require.NoError(t, err)
		gen.AssertExpectations(t)
	})

	t.Run("malformed payload skips retry", func(t *testing.T) {
		gen := new(mockGenerator)
		err := NewSummaryHandler(gen).ProcessTask(ctx, asynq.NewTask(TypeGenerateSummary, []byte("{")))
		require.Error(t, err)
		assert.ErrorIs(t, err, asynq.SkipRetry)
		gen.AssertNotCalled(t, "GetOrCreateSummary")
	})

	permanentErrors := map[string]error{
		"missing video":      &service.NotFoundError{Resource: "video", ID: "dQw4w9WgXcQ"},
		"missing transcript": &service.ProcessingError{Message: "no transcript", Cause: transcripts.ErrNoTranscriptAvailable},
		"no provider":        llm.ErrNoProviderConfigured,
		"unknown model":      &llm.UnknownModelError{Model: "nope"},
	}
	for name, cause := range permanentErrors {
		t.Run(name+" skips retry", func(t *testing.T) {
			gen := new(mockGenerator)
			gen.On("GetOrCreateSummary", ctx, "dQw4w9WgXcQ", "", noChapters, false).Return(nil, cause)

			err := NewSummaryHandler(gen).ProcessTask(ctx, summaryTask(t, "dQw4w9WgXcQ", false))
			require.Error(t, err)
			assert.ErrorIs(t, err, asynq.SkipRetry)
			assert.ErrorIs(t, err, cause)
		})
	}

	t.Run("provider failures are retried", func(t *testing.T) {
		cause := llm.NewCallError(llm.OpenAI, "gpt-4o", 500, errors.New("upstream"))
		gen := new(mockGenerator)
		gen.On("GetOrCreateSummary", ctx, "dQw4w9WgXcQ", "", noChapters, false).
			Return(nil, fmt.Errorf("summarize: %w", cause))

		err := NewSummaryHandler(gen).ProcessTask(ctx, summaryTask(t, "dQw4w9WgXcQ", false))
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})
}
