package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
	"github.com/ad-tracker/video-summarizer-go/internal/validation"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

const testVideoID = "dQw4w9WgXcQ"

const testMaxMessageLength = 200

func testValidator() *validation.Validator {
	return validation.New(testMaxMessageLength, true)
}

func setupRouter(t *testing.T, h Handlers) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, logger.Init("error", ""))
	return NewRouter(h)
}

func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

type mockVideoService struct {
	mock.Mock
}

func (m *mockVideoService) ImportVideo(ctx context.Context, videoID string, opts service.ImportOptions) (*service.ImportResult, error) {
	args := m.Called(ctx, videoID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *mockVideoService) UploadTranscript(ctx context.Context, videoID string, req *models.TranscriptUploadRequest) (*dbmodels.Transcript, error) {
	args := m.Called(ctx, videoID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Transcript), args.Error(1)
}

func (m *mockVideoService) GetVideo(ctx context.Context, videoID string) (*dbmodels.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Video), args.Error(1)
}

func (m *mockVideoService) GetTranscript(ctx context.Context, videoID string) (*dbmodels.Transcript, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Transcript), args.Error(1)
}

type mockSummaryService struct {
	mock.Mock
}

func (m *mockSummaryService) GetOrCreateSummary(ctx context.Context, videoID, transcriptText string, chs []dbmodels.Chapter, force bool) (*service.SummaryResult, error) {
	args := m.Called(ctx, videoID, transcriptText, chs, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SummaryResult), args.Error(1)
}

func (m *mockSummaryService) RegenerateSummary(ctx context.Context, videoID, model string, promptID *int64) (*service.RegenerateResult, error) {
	args := m.Called(ctx, videoID, model, promptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegenerateResult), args.Error(1)
}

func (m *mockSummaryService) GetSummaryHistory(ctx context.Context, videoID string) ([]*dbmodels.Summary, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dbmodels.Summary), args.Error(1)
}

func (m *mockSummaryService) SetCurrentSummary(ctx context.Context, videoID string, summaryID int64) (bool, error) {
	args := m.Called(ctx, videoID, summaryID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSummaryService) DeleteSummary(ctx context.Context, summaryID int64) error {
	return m.Called(ctx, summaryID).Error(0)
}

func (m *mockSummaryService) SummarizeChapter(ctx context.Context, videoID string, chapterTime int, title string, force bool) (string, error) {
	args := m.Called(ctx, videoID, chapterTime, title, force)
	return args.String(0), args.Error(1)
}

func (m *mockSummaryService) GetChapterSummaryHistory(ctx context.Context, videoID string, chapterTime int) ([]*dbmodels.ChapterSummary, error) {
	args := m.Called(ctx, videoID, chapterTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dbmodels.ChapterSummary), args.Error(1)
}

func (m *mockSummaryService) SetCurrentChapterSummary(ctx context.Context, videoID string, chapterTime int, summaryID int64) (bool, error) {
	args := m.Called(ctx, videoID, chapterTime, summaryID)
	return args.Bool(0), args.Error(1)
}

type mockChatService struct {
	mock.Mock
}

func (m *mockChatService) BuildChatContext(ctx context.Context, scope string) (*service.ChatContext, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatContext), args.Error(1)
}

func (m *mockChatService) SendMessage(ctx context.Context, req service.ChatRequest) (*service.ChatReply, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatReply), args.Error(1)
}

func (m *mockChatService) ListConversations(ctx context.Context, scope string, limit int) ([]*dbmodels.ChatConversation, error) {
	args := m.Called(ctx, scope, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dbmodels.ChatConversation), args.Error(1)
}

func (m *mockChatService) GetConversation(ctx context.Context, id uuid.UUID) (*service.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Conversation), args.Error(1)
}

func (m *mockChatService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockPromptRepo struct {
	mock.Mock
}

func (m *mockPromptRepo) Create(ctx context.Context, prompt *dbmodels.Prompt) error {
	return m.Called(ctx, prompt).Error(0)
}

func (m *mockPromptRepo) Update(ctx context.Context, prompt *dbmodels.Prompt) error {
	return m.Called(ctx, prompt).Error(0)
}

func (m *mockPromptRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPromptRepo) GetByID(ctx context.Context, id int64) (*dbmodels.Prompt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Prompt), args.Error(1)
}

func (m *mockPromptRepo) GetByName(ctx context.Context, name string) (*dbmodels.Prompt, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Prompt), args.Error(1)
}

func (m *mockPromptRepo) GetDefault(ctx context.Context) (*dbmodels.Prompt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dbmodels.Prompt), args.Error(1)
}

func (m *mockPromptRepo) SetDefault(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPromptRepo) List(ctx context.Context) ([]*dbmodels.Prompt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dbmodels.Prompt), args.Error(1)
}

type mockSettingsRepo struct {
	mock.Mock
}

func (m *mockSettingsRepo) GetSummarizerSettings(ctx context.Context, defaults dbmodels.SummarizerSettings) (dbmodels.SummarizerSettings, error) {
	args := m.Called(ctx, defaults)
	return args.Get(0).(dbmodels.SummarizerSettings), args.Error(1)
}

func (m *mockSettingsRepo) SaveSummarizerSettings(ctx context.Context, settings dbmodels.SummarizerSettings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *mockSettingsRepo) GetImportSettings(ctx context.Context, defaults dbmodels.ImportSettings) (dbmodels.ImportSettings, error) {
	args := m.Called(ctx, defaults)
	return args.Get(0).(dbmodels.ImportSettings), args.Error(1)
}

func (m *mockSettingsRepo) SaveImportSettings(ctx context.Context, settings dbmodels.ImportSettings) error {
	return m.Called(ctx, settings).Error(0)
}

type staticCatalog struct {
	models   map[llm.ProviderName][]string
	settings dbmodels.SummarizerSettings
}

func (s staticCatalog) AvailableModels() map[llm.ProviderName][]string { return s.models }

func (s staticCatalog) Configured() bool { return len(s.models) > 0 }

func (s staticCatalog) Settings(context.Context) dbmodels.SummarizerSettings { return s.settings }
