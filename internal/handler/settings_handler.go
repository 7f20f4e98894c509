package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/db/repository"
	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// ModelCatalog reports the models the configured providers can serve.
// *summarizer.Dispatcher satisfies it.
type ModelCatalog interface {
	AvailableModels() map[llm.ProviderName][]string
	Configured() bool
	Settings(ctx context.Context) dbmodels.SummarizerSettings
}

// SettingsHandler handles model listing and runtime settings.
type SettingsHandler struct {
	catalog        ModelCatalog
	settings       repository.SettingsRepository
	importDefaults dbmodels.ImportSettings
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(catalog ModelCatalog, settings repository.SettingsRepository, importDefaults dbmodels.ImportSettings) *SettingsHandler {
	return &SettingsHandler{
		catalog:        catalog,
		settings:       settings,
		importDefaults: importDefaults,
	}
}

// ListModels handles GET /api/v1/models.
func (h *SettingsHandler) ListModels(c *gin.Context) {
	current := h.catalog.Settings(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"configured":    h.catalog.Configured(),
		"models":        h.catalog.AvailableModels(),
		"default_model": current.Model,
	})
}

// GetSummarizerSettings handles GET /api/v1/settings/summarizer.
func (h *SettingsHandler) GetSummarizerSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Settings(c.Request.Context()))
}

// UpdateSummarizerSettings handles PUT /api/v1/settings/summarizer.
func (h *SettingsHandler) UpdateSummarizerSettings(c *gin.Context) {
	ctx := c.Request.Context()

	// Start from the effective settings so partial documents keep the rest.
	settings := h.catalog.Settings(ctx)
	if err := c.ShouldBindJSON(&settings); err != nil {
		bindError(c, err)
		return
	}

	if msg := validateSummarizerSettings(settings); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	if err := h.settings.SaveSummarizerSettings(ctx, settings); err != nil {
		handleError(c, err)
		return
	}

	logger.L().Info("Summarizer settings updated",
		zap.String("model", settings.Model),
		zap.String("preferredProvider", settings.PreferredProvider),
	)
	c.JSON(http.StatusOK, settings)
}

// GetImportSettings handles GET /api/v1/settings/import.
func (h *SettingsHandler) GetImportSettings(c *gin.Context) {
	settings, err := h.settings.GetImportSettings(c.Request.Context(), h.importDefaults)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateImportSettings handles PUT /api/v1/settings/import.
func (h *SettingsHandler) UpdateImportSettings(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.settings.GetImportSettings(ctx, h.importDefaults)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := c.ShouldBindJSON(&settings); err != nil {
		bindError(c, err)
		return
	}

	if err := h.settings.SaveImportSettings(ctx, settings); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func validateSummarizerSettings(s dbmodels.SummarizerSettings) string {
	if s.PreferredProvider != "" {
		if _, ok := llm.ParseProviderName(s.PreferredProvider); !ok {
			return "unknown preferred_provider: " + s.PreferredProvider
		}
	}
	if s.MaxTokens <= 0 {
		return "max_tokens must be positive"
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return "temperature must be between 0 and 2"
	}
	return ""
}
