package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
	"github.com/ad-tracker/video-summarizer-go/internal/service/transcripts"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

// handleError maps service and provider errors onto HTTP responses.
func handleError(c *gin.Context, err error) {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		unknown    *llm.UnknownModelError
		notConfig  *llm.ProviderNotConfiguredError
		callErr    *llm.CallError
		processing *service.ProcessingError
	)

	path := zap.String("path", c.Request.URL.Path)

	switch {
	case errors.As(err, &validation):
		logger.L().Warn("Validation error", zap.Error(err), path)
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &unknown):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound), db.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	case db.IsDuplicateKey(err):
		respondError(c, http.StatusConflict, "resource already exists")
	case errors.Is(err, transcripts.ErrNoTranscriptAvailable):
		respondError(c, http.StatusNotFound, service.TranscriptUnavailableMessage)
	case errors.Is(err, llm.ErrNoProviderConfigured), errors.As(err, &notConfig):
		logger.L().Error("Summarizer not configured", zap.Error(err), path)
		respondError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, transcripts.ErrFetchTimeout):
		respondError(c, http.StatusGatewayTimeout, err.Error())
	case llm.IsRateLimited(err):
		respondError(c, http.StatusTooManyRequests, "AI provider rate limit reached, retry later")
	case errors.As(err, &callErr):
		logger.L().Error("AI provider error", zap.Error(err), path)
		respondError(c, http.StatusBadGateway, err.Error())
	case errors.As(err, &processing):
		logger.L().Error("Processing error", zap.Error(err), path)
		respondError(c, http.StatusInternalServerError, processing.Message)
	default:
		logger.L().Error("Unexpected error", zap.Error(err), path)
		respondError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func bindError(c *gin.Context, err error) {
	logger.L().Warn("Invalid request payload", zap.Error(err), zap.String("path", c.Request.URL.Path))
	respondError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
}
