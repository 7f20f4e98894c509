package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/models"
	"github.com/ad-tracker/video-summarizer-go/internal/service"
	"github.com/ad-tracker/video-summarizer-go/internal/validation"
)

// ChatService is the chat surface used by ChatHandler.
// *service.ChatService satisfies it.
type ChatService interface {
	BuildChatContext(ctx context.Context, scope string) (*service.ChatContext, error)
	SendMessage(ctx context.Context, req service.ChatRequest) (*service.ChatReply, error)
	ListConversations(ctx context.Context, scope string, limit int) ([]*dbmodels.ChatConversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*service.Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) error
}

// ChatHandler handles chat endpoints. The scope path parameter is a channel
// ID or "global".
type ChatHandler struct {
	chats     ChatService
	validator *validation.Validator
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(chats ChatService, validator *validation.Validator) *ChatHandler {
	return &ChatHandler{chats: chats, validator: validator}
}

// GetContext handles GET /api/v1/chat/:scope/context.
func (h *ChatHandler) GetContext(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	cc, err := h.chats.BuildChatContext(c.Request.Context(), scope)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cc)
}

// SendMessage handles POST /api/v1/chat/:scope/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	var req models.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.validator.ValidateChatMessage(&req); err != nil {
		handleError(c, invalid(err))
		return
	}

	reply, err := h.chats.SendMessage(c.Request.Context(), service.ChatRequest{
		Scope:          scope,
		Message:        req.Message,
		Model:          req.Model,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// ListConversations handles GET /api/v1/chat/:scope/conversations.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	convs, err := h.chats.ListConversations(c.Request.Context(), scope, parseLimit(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversations": convs,
		"count":         len(convs),
	})
}

// GetConversation handles GET /api/v1/conversations/:id.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}

	conv, err := h.chats.GetConversation(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// DeleteConversation handles DELETE /api/v1/conversations/:id.
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	id, ok := conversationID(c)
	if !ok {
		return
	}

	if err := h.chats.DeleteConversation(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) scope(c *gin.Context) (string, bool) {
	scope := c.Param("scope")
	if err := h.validator.ValidateChatScope(scope); err != nil {
		handleError(c, invalid(err))
		return "", false
	}
	return scope, true
}

func conversationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid conversation ID: "+c.Param("id"))
		return uuid.Nil, false
	}
	return id, true
}
