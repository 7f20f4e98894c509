package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/db/repository"
	"github.com/ad-tracker/video-summarizer-go/internal/metrics"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service/summarizer"
	"github.com/ad-tracker/video-summarizer-go/internal/service/transcripts"
	"github.com/ad-tracker/video-summarizer-go/internal/transcript"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// Summary kinds used for metrics.
const (
	kindVideo   = "video"
	kindChapter = "chapter"
)

// maxStoreAttempts bounds version-store writes aborted by PostgreSQL.
const maxStoreAttempts = 3

// builtInPromptName is reported when no stored prompt shaped a summary.
const builtInPromptName = "Built-in"

// Summarizer generates summaries. *summarizer.Dispatcher satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, req summarizer.Request) (*summarizer.Result, error)
	SummarizeChapter(ctx context.Context, req summarizer.ChapterRequest) (*summarizer.Result, error)
	Complete(ctx context.Context, model, prompt string) (*summarizer.Result, error)
}

// SummaryResult is returned by GetOrCreateSummary.
type SummaryResult struct {
	Text      string            `json:"summary"`
	FromCache bool              `json:"from_cache"`
	Summary   *dbmodels.Summary `json:"version"`
}

// RegenerateResult is returned by RegenerateSummary.
type RegenerateResult struct {
	Text       string            `json:"summary"`
	ModelUsed  string            `json:"model_used"`
	PromptName string            `json:"prompt_name"`
	Summary    *dbmodels.Summary `json:"version"`
}

// SummaryDeps are the collaborators of SummaryService. Publisher and Metrics
// may be nil.
type SummaryDeps struct {
	Videos           repository.VideoRepository
	Transcripts      repository.TranscriptRepository
	Summaries        repository.SummaryRepository
	ChapterSummaries repository.ChapterSummaryRepository
	Prompts          repository.PromptRepository
	Summarizer       Summarizer
	Publisher        EventPublisher
	Metrics          *metrics.Metrics
}

// SummaryService generates and versions video and chapter summaries.
type SummaryService struct {
	videos           repository.VideoRepository
	transcripts      repository.TranscriptRepository
	summaries        repository.SummaryRepository
	chapterSummaries repository.ChapterSummaryRepository
	prompts          repository.PromptRepository
	summarizer       Summarizer
	publisher        EventPublisher
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(deps SummaryDeps) *SummaryService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &SummaryService{
		videos:           deps.Videos,
		transcripts:      deps.Transcripts,
		summaries:        deps.Summaries,
		chapterSummaries: deps.ChapterSummaries,
		prompts:          deps.Prompts,
		summarizer:       deps.Summarizer,
		publisher:        publisher,
		metrics:          deps.Metrics,
		logger:           logger.Named("summary"),
	}
}

// GetOrCreateSummary returns the current summary of a video, generating and
// storing a new version when none exists or forceRegenerate is set. An empty
// transcriptText loads the stored transcript; nil chapters use the video's.
func (s *SummaryService) GetOrCreateSummary(ctx context.Context, videoID, transcriptText string, chs []dbmodels.Chapter, forceRegenerate bool) (*SummaryResult, error) {
	if videoID == "" {
		return nil, &ValidationError{Message: "video ID is required"}
	}

	if !forceRegenerate {
		current, err := s.summaries.GetCurrent(ctx, videoID)
		if err == nil {
			return &SummaryResult{Text: current.Text, FromCache: true, Summary: current}, nil
		}
		if !db.IsNotFound(err) {
			return nil, fmt.Errorf("get current summary: %w", err)
		}
	}

	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if chs == nil {
		chs = video.Chapters
	}

	req := summarizer.Request{
		Content:   transcriptText,
		Chapters:  chs,
		VideoID:   videoID,
		VideoInfo: video.Info(),
	}
	if transcriptText == "" {
		stored, err := s.loadTranscript(ctx, videoID)
		if err != nil {
			return nil, err
		}
		req.Content = stored.FormattedText
		req.Entries = stored.Entries
	}

	result, err := s.summarizer.Summarize(ctx, req)
	if err != nil {
		return nil, err
	}

	summary := &dbmodels.Summary{
		VideoID:   videoID,
		Text:      result.Text,
		ModelUsed: result.Model,
	}
	if err := s.createSummary(ctx, summary); err != nil {
		return nil, err
	}

	return &SummaryResult{Text: summary.Text, Summary: summary}, nil
}

// RegenerateSummary always creates a new version from the stored transcript.
// promptID pins a stored prompt; without it the default stored prompt is
// used when one is marked, else the built-in prompt. An empty model falls
// back to the preferred provider.
func (s *SummaryService) RegenerateSummary(ctx context.Context, videoID, model string, promptID *int64) (*RegenerateResult, error) {
	if videoID == "" {
		return nil, &ValidationError{Message: "video ID is required"}
	}

	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	stored, err := s.loadTranscript(ctx, videoID)
	if err != nil {
		return nil, err
	}

	p, err := s.resolvePrompt(ctx, promptID)
	if err != nil {
		return nil, err
	}

	req := summarizer.Request{
		Content:   stored.FormattedText,
		Entries:   stored.Entries,
		Chapters:  video.Chapters,
		Model:     model,
		VideoID:   videoID,
		VideoInfo: video.Info(),
	}
	promptName := builtInPromptName
	summary := &dbmodels.Summary{VideoID: videoID}
	if p != nil {
		req.CustomPrompt = p.PromptText
		promptName = p.Name
		summary.PromptID = &p.ID
		summary.PromptName = &p.Name
	}

	result, err := s.summarizer.Summarize(ctx, req)
	if err != nil {
		return nil, err
	}

	summary.Text = result.Text
	summary.ModelUsed = result.Model
	if err := s.createSummary(ctx, summary); err != nil {
		return nil, err
	}

	return &RegenerateResult{
		Text:       summary.Text,
		ModelUsed:  summary.ModelUsed,
		PromptName: promptName,
		Summary:    summary,
	}, nil
}

// GetCurrentSummary returns the current version of a video's summary.
func (s *SummaryService) GetCurrentSummary(ctx context.Context, videoID string) (*dbmodels.Summary, error) {
	summary, err := s.summaries.GetCurrent(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "summary", ID: videoID}
		}
		return nil, fmt.Errorf("get current summary: %w", err)
	}
	return summary, nil
}

// GetSummaryHistory lists every version of a video's summary, newest first.
func (s *SummaryService) GetSummaryHistory(ctx context.Context, videoID string) ([]*dbmodels.Summary, error) {
	history, err := s.summaries.ListHistory(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("list summary history: %w", err)
	}
	return history, nil
}

// SetCurrentSummary promotes summaryID to the current version of videoID.
// It fails with a NotFoundError when the summary does not belong to the video.
func (s *SummaryService) SetCurrentSummary(ctx context.Context, videoID string, summaryID int64) (bool, error) {
	if err := s.summaries.SetCurrent(ctx, videoID, summaryID); err != nil {
		if db.IsNotFound(err) {
			return false, &NotFoundError{Resource: "summary", ID: fmt.Sprintf("%d for video %s", summaryID, videoID)}
		}
		return false, fmt.Errorf("set current summary: %w", err)
	}

	s.logger.Info("Current summary changed",
		zap.String("videoId", videoID),
		zap.Int64("summaryId", summaryID),
	)
	publish(ctx, s.publisher, models.NewSummaryEvent(models.SummaryEventCurrentChanged, videoID, summaryID))
	return true, nil
}

// DeleteSummary hard-deletes one version. Deleting the current version
// leaves the video without a current summary.
func (s *SummaryService) DeleteSummary(ctx context.Context, summaryID int64) error {
	summary, err := s.summaries.GetByID(ctx, summaryID)
	if err != nil {
		if db.IsNotFound(err) {
			return &NotFoundError{Resource: "summary", ID: fmt.Sprint(summaryID)}
		}
		return fmt.Errorf("get summary: %w", err)
	}

	if err := s.summaries.Delete(ctx, summaryID); err != nil {
		if db.IsNotFound(err) {
			return &NotFoundError{Resource: "summary", ID: fmt.Sprint(summaryID)}
		}
		return fmt.Errorf("delete summary: %w", err)
	}

	if summary.IsCurrent {
		s.logger.Warn("Deleted current summary, video has no current version",
			zap.String("videoId", summary.VideoID),
			zap.Int64("summaryId", summaryID),
		)
	}
	publish(ctx, s.publisher, models.NewSummaryEvent(models.SummaryEventDeleted, summary.VideoID, summaryID))
	return nil
}

// SummarizeChapter returns the current summary of the chapter starting at
// chapterTime, generating a new version when none exists or forceRegenerate
// is set. The chapter window runs to the next known chapter.
func (s *SummaryService) SummarizeChapter(ctx context.Context, videoID string, chapterTime int, chapterTitle string, forceRegenerate bool) (string, error) {
	if videoID == "" {
		return "", &ValidationError{Message: "video ID is required"}
	}
	if chapterTime < 0 {
		return "", &ValidationError{Message: "chapter time must not be negative"}
	}

	if !forceRegenerate {
		current, err := s.chapterSummaries.GetCurrent(ctx, videoID, chapterTime)
		if err == nil {
			return current.Text, nil
		}
		if !db.IsNotFound(err) {
			return "", fmt.Errorf("get current chapter summary: %w", err)
		}
	}

	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return "", err
	}
	stored, err := s.loadTranscript(ctx, videoID)
	if err != nil {
		return "", err
	}

	if chapterTitle == "" {
		chapterTitle = chapterTitleAt(video.Chapters, chapterTime)
	}
	window := chapterWindow(stored.Entries, video.Chapters, chapterTime, chapterTitle)
	if len(window) == 0 {
		return "", &ValidationError{Message: fmt.Sprintf("no transcript content in chapter at %ds", chapterTime)}
	}

	summary := &dbmodels.ChapterSummary{
		VideoID:      videoID,
		ChapterTime:  chapterTime,
		ChapterTitle: chapterTitle,
	}
	req := summarizer.ChapterRequest{
		VideoID:      videoID,
		ChapterTitle: chapterTitle,
		Transcript:   transcript.GroupParagraphs(window, transcript.ChapterSentencesPerParagraph),
		VideoInfo:    video.Info(),
	}

	template, err := s.prompts.GetByName(ctx, dbmodels.ChapterPromptName)
	switch {
	case err == nil:
		req.Template = template.PromptText
		summary.PromptID = &template.ID
		summary.PromptName = &template.Name
	case !db.IsNotFound(err):
		return "", fmt.Errorf("get chapter prompt: %w", err)
	}

	result, err := s.summarizer.SummarizeChapter(ctx, req)
	if err != nil {
		return "", err
	}

	summary.Text = result.Text
	summary.ModelUsed = result.Model
	if err := s.storeVersion(ctx, func() error { return s.chapterSummaries.Create(ctx, summary) }); err != nil {
		return "", fmt.Errorf("store chapter summary: %w", err)
	}
	s.metrics.SummaryCreated(kindChapter)

	s.logger.Info("Chapter summary created",
		zap.String("videoId", videoID),
		zap.Int("chapterTime", chapterTime),
		zap.Int("version", summary.VersionNumber),
		zap.String("model", summary.ModelUsed),
	)

	event := models.NewSummaryEvent(models.SummaryEventCreated, videoID, summary.ID)
	event.ChapterTime = &chapterTime
	event.VersionNumber = summary.VersionNumber
	event.ModelUsed = summary.ModelUsed
	publish(ctx, s.publisher, event)

	return summary.Text, nil
}

// GetChapterSummaryHistory lists every version of one chapter's summary.
func (s *SummaryService) GetChapterSummaryHistory(ctx context.Context, videoID string, chapterTime int) ([]*dbmodels.ChapterSummary, error) {
	history, err := s.chapterSummaries.ListHistory(ctx, videoID, chapterTime)
	if err != nil {
		return nil, fmt.Errorf("list chapter summary history: %w", err)
	}
	return history, nil
}

// SetCurrentChapterSummary promotes summaryID within its (video, chapter) scope.
func (s *SummaryService) SetCurrentChapterSummary(ctx context.Context, videoID string, chapterTime int, summaryID int64) (bool, error) {
	if err := s.chapterSummaries.SetCurrent(ctx, videoID, chapterTime, summaryID); err != nil {
		if db.IsNotFound(err) {
			return false, &NotFoundError{
				Resource: "chapter summary",
				ID:       fmt.Sprintf("%d for video %s at %ds", summaryID, videoID, chapterTime),
			}
		}
		return false, fmt.Errorf("set current chapter summary: %w", err)
	}

	event := models.NewSummaryEvent(models.SummaryEventCurrentChanged, videoID, summaryID)
	event.ChapterTime = &chapterTime
	publish(ctx, s.publisher, event)
	return true, nil
}

func (s *SummaryService) createSummary(ctx context.Context, summary *dbmodels.Summary) error {
	if err := s.storeVersion(ctx, func() error { return s.summaries.Create(ctx, summary) }); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	s.metrics.SummaryCreated(kindVideo)

	s.logger.Info("Summary created",
		zap.String("videoId", summary.VideoID),
		zap.Int64("summaryId", summary.ID),
		zap.Int("version", summary.VersionNumber),
		zap.String("model", summary.ModelUsed),
	)

	event := models.NewSummaryEvent(models.SummaryEventCreated, summary.VideoID, summary.ID)
	event.VersionNumber = summary.VersionNumber
	event.ModelUsed = summary.ModelUsed
	publish(ctx, s.publisher, event)
	return nil
}

// storeVersion runs a version-store write, repeating it up to
// maxStoreAttempts times while PostgreSQL aborts the transaction on a
// serialization failure or deadlock.
func (s *SummaryService) storeVersion(ctx context.Context, write func() error) error {
	var err error
	for attempt := 1; attempt <= maxStoreAttempts; attempt++ {
		if err = write(); err == nil || !db.IsSerialization(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Warn("Version store transaction aborted, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return err
}

func (s *SummaryService) resolvePrompt(ctx context.Context, promptID *int64) (*dbmodels.Prompt, error) {
	if promptID != nil {
		p, err := s.prompts.GetByID(ctx, *promptID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, &NotFoundError{Resource: "prompt", ID: fmt.Sprint(*promptID)}
			}
			return nil, fmt.Errorf("get prompt: %w", err)
		}
		return p, nil
	}

	p, err := s.prompts.GetDefault(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default prompt: %w", err)
	}
	return p, nil
}

func (s *SummaryService) loadVideo(ctx context.Context, videoID string) (*dbmodels.Video, error) {
	video, err := s.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "video", ID: videoID}
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

func (s *SummaryService) loadTranscript(ctx context.Context, videoID string) (*dbmodels.Transcript, error) {
	stored, err := s.transcripts.GetByVideoID(ctx, videoID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", transcripts.ErrNoTranscriptAvailable, videoID)
		}
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	if len(stored.Entries) == 0 && stored.FormattedText == "" {
		return nil, fmt.Errorf("%w: %s", transcripts.ErrNoTranscriptAvailable, videoID)
	}
	return stored, nil
}

func chapterTitleAt(chs []dbmodels.Chapter, chapterTime int) string {
	for _, ch := range chs {
		if ch.Time == chapterTime {
			return ch.Title
		}
	}
	return "Chapter at " + transcript.NewEntry(float64(chapterTime), "").FormattedTime
}

// chapterWindow returns the entries of the chapter starting at chapterTime.
// A chapter missing from chs is inserted so its window ends at the next
// known chapter.
func chapterWindow(entries []dbmodels.TranscriptEntry, chs []dbmodels.Chapter, chapterTime int, title string) []dbmodels.TranscriptEntry {
	windows := make([]dbmodels.Chapter, 0, len(chs)+1)
	found := false
	for _, ch := range chs {
		if ch.Time == chapterTime {
			found = true
		}
		windows = append(windows, ch)
	}
	if !found {
		windows = append(windows, dbmodels.Chapter{Title: title, Time: chapterTime})
		sort.SliceStable(windows, func(i, j int) bool { return windows[i].Time < windows[j].Time })
	}

	for _, seg := range transcript.Partition(entries, windows) {
		if seg.Chapter != nil && seg.Chapter.Time == chapterTime {
			return seg.Entries
		}
	}
	return nil
}
