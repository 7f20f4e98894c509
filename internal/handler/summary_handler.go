package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/validation"
)

// SummaryService is the summary surface used by SummaryHandler.
// *service.SummaryService satisfies it.
type SummaryService interface {
	GetOrCreateSummary(ctx context.Context, videoID, transcriptText string, chs []dbmodels.Chapter, forceRegenerate bool) (*service.SummaryResult, error)
	RegenerateSummary(ctx context.Context, videoID, model string, promptID *int64) (*service.RegenerateResult, error)
	GetSummaryHistory(ctx context.Context, videoID string) ([]*dbmodels.Summary, error)
	SetCurrentSummary(ctx context.Context, videoID string, summaryID int64) (bool, error)
	DeleteSummary(ctx context.Context, summaryID int64) error
	SummarizeChapter(ctx context.Context, videoID string, chapterTime int, chapterTitle string, forceRegenerate bool) (string, error)
	GetChapterSummaryHistory(ctx context.Context, videoID string, chapterTime int) ([]*dbmodels.ChapterSummary, error)
	SetCurrentChapterSummary(ctx context.Context, videoID string, chapterTime int, summaryID int64) (bool, error)
}

// SummaryHandler handles video and chapter summary endpoints.
type SummaryHandler struct {
	summaries SummaryService
	validator *validation.Validator
}

// NewSummaryHandler creates a new SummaryHandler instance.
func NewSummaryHandler(summaries SummaryService, validator *validation.Validator) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, validator: validator}
}

// GetSummary handles GET /api/v1/videos/:videoId/summary. The current
// version is returned unless force=true, in which case a new one is generated
// from the stored transcript.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}
	force, _ := strconv.ParseBool(c.Query("force"))

	result, err := h.summaries.GetOrCreateSummary(c.Request.Context(), videoID, "", nil, force)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegenerateSummary handles POST /api/v1/videos/:videoId/summary/regenerate.
func (h *SummaryHandler) RegenerateSummary(c *gin.Context) {
	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}

	var req models.RegenerateSummaryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	result, err := h.summaries.RegenerateSummary(c.Request.Context(), videoID, req.Model, req.PromptID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListSummaries handles GET /api/v1/videos/:videoId/summaries.
func (h *SummaryHandler) ListSummaries(c *gin.Context) {
	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}

	history, err := h.summaries.GetSummaryHistory(c.Request.Context(), videoID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"video_id":  videoID,
		"summaries": history,
		"count":     len(history),
	})
}

// SetCurrentSummary handles PUT /api/v1/videos/:videoId/summaries/:summaryId/current.
func (h *SummaryHandler) SetCurrentSummary(c *gin.Context) {
	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}
	summaryID, err := parseID(c, "summaryId")
	if err != nil {
		handleError(c, err)
		return
	}

	if _, err := h.summaries.SetCurrentSummary(c.Request.Context(), videoID, summaryID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary_id": summaryID, "is_current": true})
}

// DeleteSummary handles DELETE /api/v1/summaries/:summaryId.
func (h *SummaryHandler) DeleteSummary(c *gin.Context) {
	summaryID, err := parseID(c, "summaryId")
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.summaries.DeleteSummary(c.Request.Context(), summaryID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SummarizeChapter handles POST /api/v1/videos/:videoId/chapters/:chapterTime/summary.
func (h *SummaryHandler) SummarizeChapter(c *gin.Context) {
	chapterTime, err := parseChapterTime(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}

	var req models.ChapterSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}
	text, err := h.summaries.SummarizeChapter(c.Request.Context(), videoID, chapterTime, req.Title, req.Force)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"video_id":      videoID,
		"chapter_time":  chapterTime,
		"chapter_title": req.Title,
		"summary":       text,
	})
}

// ListChapterSummaries handles GET /api/v1/videos/:videoId/chapters/:chapterTime/summaries.
func (h *SummaryHandler) ListChapterSummaries(c *gin.Context) {
	chapterTime, err := parseChapterTime(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}

	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}
	history, err := h.summaries.GetChapterSummaryHistory(c.Request.Context(), videoID, chapterTime)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"video_id":     videoID,
		"chapter_time": chapterTime,
		"summaries":    history,
		"count":        len(history),
	})
}

// SetCurrentChapterSummary handles
// PUT /api/v1/videos/:videoId/chapters/:chapterTime/summaries/:summaryId/current.
func (h *SummaryHandler) SetCurrentChapterSummary(c *gin.Context) {
	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}
	chapterTime, err := parseChapterTime(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}
	summaryID, err := parseID(c, "summaryId")
	if err != nil {
		handleError(c, err)
		return
	}

	if _, err := h.summaries.SetCurrentChapterSummary(c.Request.Context(), videoID, chapterTime, summaryID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapter_summary_id": summaryID, "is_current": true})
}
