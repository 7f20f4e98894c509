package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/chapters"
	"github.com/ad-tracker/video-summarizer-go/internal/db"
	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/db/repository"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service/transcripts"
	"github.com/ad-tracker/video-summarizer-go/internal/service/youtube"
	"github.com/ad-tracker/video-summarizer-go/internal/transcript"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// TranscriptUnavailableMessage is reported when an import could not obtain a
// transcript.
const TranscriptUnavailableMessage = "Transcript extraction failed or not available."

// SummarySource values recorded on queued summary tasks.
const (
	SourceImport = "import"
	SourceUpload = "transcript_upload"
)

// MetadataFetcher looks up video and channel metadata. *youtube.Client
// satisfies it.
type MetadataFetcher interface {
	FetchVideoMetadata(ctx context.Context, videoID string) (*youtube.VideoMetadata, error)
	FetchChannel(ctx context.Context, channelID string) (*youtube.ChannelMetadata, error)
}

// ChapterFetcher returns the chapter markers of a video, or nil when the
// source has none.
type ChapterFetcher interface {
	FetchChapters(ctx context.Context, videoID string) ([]chapters.RawChapter, error)
}

// SummaryEnqueuer schedules background summary generation.
type SummaryEnqueuer interface {
	EnqueueSummary(ctx context.Context, videoID, source string, force bool) error
}

// TranscriptInvalidator drops cached transcripts. *transcripts.RedisCache
// satisfies it.
type TranscriptInvalidator interface {
	Invalidate(ctx context.Context, videoID string) error
}

// ImportSettingsLoader returns the import settings overlaid on defaults.
type ImportSettingsLoader interface {
	GetImportSettings(ctx context.Context, defaults dbmodels.ImportSettings) (dbmodels.ImportSettings, error)
}

// ImportOptions tune a single import.
type ImportOptions struct {
	// ForceTranscript refetches the transcript even when one is stored.
	ForceTranscript bool
}

// ImportResult describes what an import stored.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ImportResult struct {
	Video            *dbmodels.Video      `json:"video"`
	Transcript       *dbmodels.Transcript `json:"transcript,omitempty"`
	TranscriptStatus string               `json:"transcript_status"`
	SummaryQueued    bool                 `json:"summary_queued"`
}

// ImportDeps are the collaborators of ImportService. Chapters, Cache,
// Enqueuer and Settings are optional.
type ImportDeps struct {
	Channels    repository.ChannelRepository
	Videos      repository.VideoRepository
	Transcripts repository.TranscriptRepository
	Settings    ImportSettingsLoader
	Metadata    MetadataFetcher
	Chapters    ChapterFetcher
	Source      transcripts.Fetcher
	Cache       TranscriptInvalidator
	Enqueuer    SummaryEnqueuer
}

// ImportService brings videos, their chapters and transcripts into storage.
type ImportService struct {
	channels    repository.ChannelRepository
	videos      repository.VideoRepository
	transcripts repository.TranscriptRepository
	settings    ImportSettingsLoader
	defaults    dbmodels.ImportSettings
	metadata    MetadataFetcher
	chapters    ChapterFetcher
	source      transcripts.Fetcher
	cache       TranscriptInvalidator
	enqueuer    SummaryEnqueuer
	logger      *zap.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(deps ImportDeps, defaults dbmodels.ImportSettings) *ImportService {
	return &ImportService{
		channels:    deps.Channels,
		videos:      deps.Videos,
		transcripts: deps.Transcripts,
		settings:    deps.Settings,
		defaults:    defaults,
		metadata:    deps.Metadata,
		chapters:    deps.Chapters,
		source:      deps.Source,
		cache:       deps.Cache,
		enqueuer:    deps.Enqueuer,
		logger:      logger.Named("import"),
	}
}

// ImportVideo fetches a video's metadata, resolves its chapters, stores its
// transcript and queues an automatic summary when enabled. A missing
// transcript does not fail the import.
func (s *ImportService) ImportVideo(ctx context.Context, videoID string, opts ImportOptions) (*ImportResult, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, &ValidationError{Message: "video ID is required"}
	}
	if s.metadata == nil {
		return nil, &ProcessingError{Message: "video import unavailable", Cause: errors.New("no metadata source configured")}
	}

	settings := s.importSettings(ctx)

	meta, err := s.metadata.FetchVideoMetadata(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			return nil, &NotFoundError{Resource: "video", ID: videoID}
		}
		return nil, &ProcessingError{Message: "failed to fetch video metadata", Cause: err}
	}

	video := &dbmodels.Video{
		VideoID:         meta.VideoID,
		ChannelName:     meta.ChannelTitle,
		Title:           meta.Title,
		Description:     meta.Description,
		DurationSeconds: meta.DurationSeconds,
		ViewCount:       meta.ViewCount,
		PublishedAt:     meta.PublishedAt,
	}

	if meta.ChannelID != "" {
		if err := s.upsertChannel(ctx, meta); err != nil {
			return nil, err
		}
		video.ChannelID = &meta.ChannelID
	}

	if settings.ChapterExtraction {
		video.Chapters = chapters.Resolve(s.sourceChapters(ctx, videoID), meta.Description, meta.DurationSeconds)
	}

	if err := s.videos.UpsertVideo(ctx, video); err != nil {
		return nil, fmt.Errorf("store video: %w", err)
	}

	s.logger.Info("Video imported",
		zap.String("videoId", videoID),
		zap.String("title", video.Title),
		zap.Int("chapters", len(video.Chapters)),
	)

	result := &ImportResult{Video: video, TranscriptStatus: TranscriptUnavailableMessage}
	if !settings.TranscriptExtraction {
		result.TranscriptStatus = "Transcript extraction disabled."
		return result, nil
	}

	stored, err := s.importTranscript(ctx, video, meta.Language, opts.ForceTranscript)
	if err != nil {
		s.logger.Warn("Transcript unavailable",
			zap.String("videoId", videoID),
			zap.Error(err),
		)
		return result, nil
	}
	result.Transcript = stored
	result.TranscriptStatus = "Transcript stored."

	if settings.AutoSummary {
		result.SummaryQueued = s.enqueueSummary(ctx, videoID, SourceImport)
	}
	return result, nil
}

// UploadTranscript stores a transcript acquired out of band, given either as
// entries or as a WebVTT document, and renders it against the video's
// chapters.
func (s *ImportService) UploadTranscript(ctx context.Context, videoID string, req *models.TranscriptUploadRequest) (*dbmodels.Transcript, error) {
	video, err := s.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var entries []dbmodels.TranscriptEntry
	switch {
	case len(req.Entries) > 0:
		entries = make([]dbmodels.TranscriptEntry, 0, len(req.Entries))
		for _, e := range req.Entries {
			entries = append(entries, transcript.NewEntry(e.Time, strings.TrimSpace(e.Text)))
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Time < entries[j].Time })
	case req.VTT != "":
		entries, err = transcript.ParseVTT(req.VTT)
		if err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}
	if len(entries) == 0 {
		return nil, &ValidationError{Message: "transcript contains no entries"}
	}

	stored := &dbmodels.Transcript{
		VideoID:       videoID,
		Entries:       entries,
		FormattedText: transcript.ToReadableText(entries, video.Chapters),
	}
	if req.Language != "" {
		stored.Language = &req.Language
	}
	if err := s.transcripts.Upsert(ctx, stored); err != nil {
		return nil, fmt.Errorf("store transcript: %w", err)
	}
	s.invalidate(ctx, videoID)

	s.logger.Info("Transcript uploaded",
		zap.String("videoId", videoID),
		zap.Int("entries", len(entries)),
	)

	if s.importSettings(ctx).AutoSummary {
		s.enqueueSummary(ctx, videoID, SourceUpload)
	}
	return stored, nil
}

// GetVideo returns a stored video.
func (s *ImportService) GetVideo(ctx context.Context, videoID string) (*dbmodels.Video, error) {
	video, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "video", ID: videoID}
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// GetTranscript returns the stored transcript of a video.
func (s *ImportService) GetTranscript(ctx context.Context, videoID string) (*dbmodels.Transcript, error) {
	stored, err := s.transcripts.GetByVideoID(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "transcript", ID: videoID}
		}
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	return stored, nil
}

func (s *ImportService) importSettings(ctx context.Context) dbmodels.ImportSettings {
	if s.settings == nil {
		return s.defaults
	}
	settings, err := s.settings.GetImportSettings(ctx, s.defaults)
	if err != nil {
		s.logger.Warn("Failed to load import settings, using defaults", zap.Error(err))
		return s.defaults
	}
	return settings
}

func (s *ImportService) upsertChannel(ctx context.Context, meta *youtube.VideoMetadata) error {
	channel := dbmodels.NewChannel(meta.ChannelID, meta.ChannelTitle)

	info, err := s.metadata.FetchChannel(ctx, meta.ChannelID)
	if err != nil {
		s.logger.Warn("Failed to fetch channel details",
			zap.String("channelId", meta.ChannelID),
			zap.Error(err),
		)
	} else {
		if info.Title != "" {
			channel.Name = info.Title
		}
		channel.Handle = info.Handle
		channel.Description = info.Description
	}

	if err := s.channels.UpsertChannel(ctx, channel); err != nil {
		return fmt.Errorf("store channel: %w", err)
	}
	return nil
}

func (s *ImportService) sourceChapters(ctx context.Context, videoID string) []chapters.RawChapter {
	if s.chapters == nil {
		return nil
	}
	raw, err := s.chapters.FetchChapters(ctx, videoID)
	if err != nil {
		s.logger.Warn("Chapter extraction failed, falling back to description",
			zap.String("videoId", videoID),
			zap.Error(err),
		)
		return nil
	}
	return raw
}

// importTranscript keeps a stored transcript unless force is set, otherwise
// fetches entries from the source. Either way the readable text is
// re-rendered against the current chapters.
func (s *ImportService) importTranscript(ctx context.Context, video *dbmodels.Video, language *string, force bool) (*dbmodels.Transcript, error) {
	if s.source == nil {
		return nil, transcripts.ErrNoTranscriptAvailable
	}
	if force {
		s.invalidate(ctx, video.VideoID)
	}

	var entries []dbmodels.TranscriptEntry
	if !force {
		existing, err := s.transcripts.GetByVideoID(ctx, video.VideoID)
		switch {
		case err == nil && len(existing.Entries) > 0:
			entries = existing.Entries
			if existing.Language != nil {
				language = existing.Language
			}
		case err != nil && !db.IsNotFound(err):
			return nil, fmt.Errorf("get transcript: %w", err)
		}
	}

	if entries == nil {
		fetched, err := s.source.FetchTranscript(ctx, video.VideoID)
		if err != nil {
			return nil, err
		}
		entries = fetched
	}

	stored := &dbmodels.Transcript{
		VideoID:       video.VideoID,
		Entries:       entries,
		FormattedText: transcript.ToReadableText(entries, video.Chapters),
		Language:      language,
	}
	if err := s.transcripts.Upsert(ctx, stored); err != nil {
		return nil, fmt.Errorf("store transcript: %w", err)
	}
	return stored, nil
}

func (s *ImportService) enqueueSummary(ctx context.Context, videoID, source string) bool {
	if s.enqueuer == nil {
		return false
	}
	if err := s.enqueuer.EnqueueSummary(ctx, videoID, source, false); err != nil {
		s.logger.Error("Failed to queue summary",
			zap.String("videoId", videoID),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (s *ImportService) invalidate(ctx context.Context, videoID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, videoID); err != nil {
		s.logger.Warn("Failed to invalidate cached transcript",
			zap.String("videoId", videoID),
			zap.Error(err),
		)
	}
}
