package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/db/repository"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

// PromptHandler handles CRUD for stored summarization prompts.
type PromptHandler struct {
	prompts repository.PromptRepository
}

// NewPromptHandler creates a new PromptHandler instance.
func NewPromptHandler(prompts repository.PromptRepository) *PromptHandler {
	return &PromptHandler{prompts: prompts}
}

// List handles GET /api/v1/prompts.
func (h *PromptHandler) List(c *gin.Context) {
	prompts, err := h.prompts.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"prompts": prompts,
		"count":   len(prompts),
	})
}

// Get handles GET /api/v1/prompts/:id.
func (h *PromptHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	prompt, err := h.prompts.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

// Create handles POST /api/v1/prompts.
func (h *PromptHandler) Create(c *gin.Context) {
	var req models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	prompt := promptFromRequest(&req)
	if prompt.PromptText == "" {
		respondError(c, http.StatusBadRequest, "prompt_text must not be blank")
		return
	}

	if err := h.prompts.Create(c.Request.Context(), prompt); err != nil {
		handleError(c, err)
		return
	}

	logger.L().Info("Prompt created",
		zap.Int64("promptId", prompt.ID),
		zap.String("name", prompt.Name),
		zap.Bool("isDefault", prompt.IsDefault),
	)
	c.JSON(http.StatusCreated, prompt)
}

// Update handles PUT /api/v1/prompts/:id. Setting is_default marks the
// prompt as the only default; clearing it is done by promoting another one.
func (h *PromptHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	var req models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	prompt := promptFromRequest(&req)
	prompt.ID = id
	if err := h.prompts.Update(ctx, prompt); err != nil {
		handleError(c, err)
		return
	}

	if req.IsDefault && !prompt.IsDefault {
		if err := h.prompts.SetDefault(ctx, id); err != nil {
			handleError(c, err)
			return
		}
		prompt.IsDefault = true
	}
	c.JSON(http.StatusOK, prompt)
}

// Delete handles DELETE /api/v1/prompts/:id.
func (h *PromptHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.prompts.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDefault handles PUT /api/v1/prompts/:id/default.
func (h *PromptHandler) SetDefault(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.prompts.SetDefault(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_default": true})
}

func promptFromRequest(req *models.PromptRequest) *dbmodels.Prompt {
	return &dbmodels.Prompt{
		Name:        strings.TrimSpace(req.Name),
		PromptText:  strings.TrimSpace(req.PromptText),
		Description: req.Description,
		IsDefault:   req.IsDefault,
	}
}
