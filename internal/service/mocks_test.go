package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
	apimodels "github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service/summarizer"
)

// Mock repositories
type mockVideoRepo struct {
	mock.Mock
}

func (m *mockVideoRepo) UpsertVideo(ctx context.Context, video *models.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *mockVideoRepo) GetVideoByID(ctx context.Context, videoID string) (*models.Video, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *mockVideoRepo) GetVideosByChannelID(ctx context.Context, channelID string, limit int) ([]*models.Video, error) {
	args := m.Called(ctx, channelID, limit)
	return args.Get(0).([]*models.Video), args.Error(1)
}

func (m *mockVideoRepo) ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Video), args.Error(1)
}

type mockChannelRepo struct {
	mock.Mock
}

func (m *mockChannelRepo) UpsertChannel(ctx context.Context, channel *models.Channel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *mockChannelRepo) GetChannelByID(ctx context.Context, channelID string) (*models.Channel, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *mockChannelRepo) ListChannels(ctx context.Context, limit, offset int) ([]*models.Channel, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Channel), args.Error(1)
}

type mockTranscriptRepo struct {
	mock.Mock
}

func (m *mockTranscriptRepo) Upsert(ctx context.Context, t *models.Transcript) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTranscriptRepo) GetByVideoID(ctx context.Context, videoID string) (*models.Transcript, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transcript), args.Error(1)
}

type mockSummaryRepo struct {
	mock.Mock
}

func (m *mockSummaryRepo) Create(ctx context.Context, summary *models.Summary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *mockSummaryRepo) SetCurrent(ctx context.Context, videoID string, summaryID int64) error {
	args := m.Called(ctx, videoID, summaryID)
	return args.Error(0)
}

func (m *mockSummaryRepo) GetCurrent(ctx context.Context, videoID string) (*models.Summary, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

func (m *mockSummaryRepo) ListHistory(ctx context.Context, videoID string) ([]*models.Summary, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).([]*models.Summary), args.Error(1)
}

func (m *mockSummaryRepo) GetByID(ctx context.Context, summaryID int64) (*models.Summary, error) {
	args := m.Called(ctx, summaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

func (m *mockSummaryRepo) Delete(ctx context.Context, summaryID int64) error {
	args := m.Called(ctx, summaryID)
	return args.Error(0)
}

func (m *mockSummaryRepo) ListCurrentForChat(ctx context.Context, channelID *string, limit int) ([]*models.ChatSummary, error) {
	args := m.Called(ctx, channelID, limit)
	return args.Get(0).([]*models.ChatSummary), args.Error(1)
}

type mockChapterSummaryRepo struct {
	mock.Mock
}

func (m *mockChapterSummaryRepo) Create(ctx context.Context, summary *models.ChapterSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *mockChapterSummaryRepo) SetCurrent(ctx context.Context, videoID string, chapterTime int, summaryID int64) error {
	args := m.Called(ctx, videoID, chapterTime, summaryID)
	return args.Error(0)
}

func (m *mockChapterSummaryRepo) GetCurrent(ctx context.Context, videoID string, chapterTime int) (*models.ChapterSummary, error) {
	args := m.Called(ctx, videoID, chapterTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChapterSummary), args.Error(1)
}

func (m *mockChapterSummaryRepo) ListHistory(ctx context.Context, videoID string, chapterTime int) ([]*models.ChapterSummary, error) {
	args := m.Called(ctx, videoID, chapterTime)
	return args.Get(0).([]*models.ChapterSummary), args.Error(1)
}

func (m *mockChapterSummaryRepo) GetByID(ctx context.Context, summaryID int64) (*models.ChapterSummary, error) {
	args := m.Called(ctx, summaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChapterSummary), args.Error(1)
}

func (m *mockChapterSummaryRepo) Delete(ctx context.Context, summaryID int64) error {
	args := m.Called(ctx, summaryID)
	return args.Error(0)
}

type mockPromptRepo struct {
	mock.Mock
}

func (m *mockPromptRepo) Create(ctx context.Context, p *models.Prompt) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPromptRepo) Update(ctx context.Context, p *models.Prompt) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPromptRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPromptRepo) GetByID(ctx context.Context, id int64) (*models.Prompt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prompt), args.Error(1)
}

func (m *mockPromptRepo) GetByName(ctx context.Context, name string) (*models.Prompt, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prompt), args.Error(1)
}

func (m *mockPromptRepo) GetDefault(ctx context.Context) (*models.Prompt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prompt), args.Error(1)
}

func (m *mockPromptRepo) SetDefault(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPromptRepo) List(ctx context.Context) ([]*models.Prompt, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Prompt), args.Error(1)
}

type mockChatRepo struct {
	mock.Mock
}

func (m *mockChatRepo) CreateConversation(ctx context.Context, conv *models.ChatConversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *mockChatRepo) GetConversation(ctx context.Context, id uuid.UUID) (*models.ChatConversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatConversation), args.Error(1)
}

func (m *mockChatRepo) ListConversations(ctx context.Context, scope string, limit int) ([]*models.ChatConversation, error) {
	args := m.Called(ctx, scope, limit)
	return args.Get(0).([]*models.ChatConversation), args.Error(1)
}

func (m *mockChatRepo) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockChatRepo) AppendMessages(ctx context.Context, conversationID uuid.UUID, messages ...*models.ChatMessage) error {
	args := m.Called(ctx, conversationID, messages)
	return args.Error(0)
}

func (m *mockChatRepo) RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	args := m.Called(ctx, conversationID, limit)
	return args.Get(0).([]*models.ChatMessage), args.Error(1)
}

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context, req summarizer.Request) (*summarizer.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*summarizer.Result), args.Error(1)
}

func (m *mockSummarizer) SummarizeChapter(ctx context.Context, req summarizer.ChapterRequest) (*summarizer.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*summarizer.Result), args.Error(1)
}

func (m *mockSummarizer) Complete(ctx context.Context, model, prompt string) (*summarizer.Result, error) {
	args := m.Called(ctx, model, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*summarizer.Result), args.Error(1)
}

// recordingPublisher keeps published events in memory.
type recordingPublisher struct {
	events []*apimodels.SummaryEvent
	err    error
}

func (p *recordingPublisher) PublishSummaryEvent(_ context.Context, event *apimodels.SummaryEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) IsHealthy() bool { return p.err == nil }

func (p *recordingPublisher) Close() error { return nil }
