package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/transcript"
	"github.com/ad-tracker/video-summarizer-go/internal/validation"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// Transcript output formats.
const (
	FormatReadable   = "readable"
	FormatTimestamps = "timestamps"
	FormatSRT        = "srt"
)

// VideoService is the import surface used by VideoHandler.
// *service.ImportService satisfies it.
type VideoService interface {
	ImportVideo(ctx context.Context, videoID string, opts service.ImportOptions) (*service.ImportResult, error)
	UploadTranscript(ctx context.Context, videoID string, req *models.TranscriptUploadRequest) (*dbmodels.Transcript, error)
	GetVideo(ctx context.Context, videoID string) (*dbmodels.Video, error)
	GetTranscript(ctx context.Context, videoID string) (*dbmodels.Transcript, error)
}

// VideoHandler handles video import and transcript endpoints.
type VideoHandler struct {
	videos    VideoService
	validator *validation.Validator
}

// NewVideoHandler creates a new VideoHandler instance.
func NewVideoHandler(videos VideoService, validator *validation.Validator) *VideoHandler {
	return &VideoHandler{videos: videos, validator: validator}
}

// ImportVideo handles POST /api/v1/videos/import.
func (h *VideoHandler) ImportVideo(c *gin.Context) {
	var req models.ImportVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.validator.ValidateVideoID(req.VideoID); err != nil {
		handleError(c, invalid(err))
		return
	}

	result, err := h.videos.ImportVideo(c.Request.Context(), req.VideoID, service.ImportOptions{
		ForceTranscript: req.ForceTranscript,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	logger.L().Info("Video imported",
		zap.String("videoId", req.VideoID),
		zap.Bool("summaryQueued", result.SummaryQueued),
	)
	c.JSON(http.StatusCreated, result)
}

// GetVideo handles GET /api/v1/videos/:videoId.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}

	video, err := h.videos.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// UploadTranscript handles PUT /api/v1/videos/:videoId/transcript.
func (h *VideoHandler) UploadTranscript(c *gin.Context) {
	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}

	var req models.TranscriptUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.validator.ValidateTranscriptUpload(&req); err != nil {
		handleError(c, invalid(err))
		return
	}

	stored, err := h.videos.UploadTranscript(c.Request.Context(), videoID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// GetTranscript handles GET /api/v1/videos/:videoId/transcript. The format
// query parameter selects readable text, timestamped lines or SRT.
func (h *VideoHandler) GetTranscript(c *gin.Context) {
	ctx := c.Request.Context()
	videoID, err := videoIDParam(c, h.validator)
	if err != nil {
		handleError(c, err)
		return
	}
	format := c.DefaultQuery("format", FormatReadable)

	stored, err := h.videos.GetTranscript(ctx, videoID)
	if err != nil {
		handleError(c, err)
		return
	}

	switch format {
	case FormatReadable:
		body := gin.H{
			"video_id": videoID,
			"format":   format,
			"content":  stored.FormattedText,
		}
		if video, err := h.videos.GetVideo(ctx, videoID); err == nil && len(video.Chapters) > 1 {
			if stored.FormattedText == "" {
				body["content"] = transcript.ToReadableText(stored.Entries, video.Chapters)
			}
			body["chapter_navigation"] = transcript.ChapterNavigation(video.Chapters, videoID)
		}
		c.JSON(http.StatusOK, body)
	case FormatTimestamps:
		c.JSON(http.StatusOK, gin.H{
			"video_id": videoID,
			"format":   format,
			"content":  transcript.WithTimestamps(stored.Entries, transcript.DefaultTimestampInterval),
		})
	case FormatSRT:
		c.Header("Content-Disposition", `attachment; filename="`+videoID+`.srt"`)
		c.Data(http.StatusOK, "application/x-subrip; charset=utf-8", []byte(transcript.ToSRT(stored.Entries)))
	default:
		respondError(c, http.StatusBadRequest, "unsupported transcript format: "+format)
	}
}
