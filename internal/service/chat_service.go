package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ad-tracker/video-summarizer-go/internal/chat"
	"github.com/ad-tracker/video-summarizer-go/internal/config"
	"github.com/ad-tracker/video-summarizer-go/internal/db"
	dbmodels "github.com/ad-tracker/video-summarizer-go/internal/db/models"
	"github.com/ad-tracker/video-summarizer-go/internal/db/repository"
	"github.com/ad-tracker/video-summarizer-go/internal/metrics"
	"github.com/ad-tracker/video-summarizer-go/internal/validation"
	"github.com/ad-tracker/video-summarizer-go/pkg/logger"
)

const (
	// chatFetchLimit bounds the summaries read per context build. The
	// context budget trims further.
	chatFetchLimit = 500

	globalScopeName = "All Channels"

	defaultConversationLimit = 50
)

// ChatOptions bound chat context assembly and history replay.
type ChatOptions struct {
	DefaultModel    string
	MaxContextChars int
	MaxSummaries    int
	RetrySummaries  int
	HistoryMessages int
}

// ChatOptionsFromConfig converts the chat config section.
func ChatOptionsFromConfig(cfg config.ChatConfig) ChatOptions {
	return ChatOptions{
		DefaultModel:    cfg.DefaultModel,
		MaxContextChars: cfg.MaxContextChars,
		MaxSummaries:    cfg.MaxSummaries,
		RetrySummaries:  cfg.RetrySummaries,
		HistoryMessages: cfg.HistoryMessages,
	}
}

// ChatContext is the grounding context of a chat scope.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChatContext struct {
	Scope          string                `json:"scope"`
	ScopeName      string                `json:"scope_name"`
	Text           string                `json:"context_text"`
	SummaryCount   int                   `json:"summary_count"`
	TotalSummaries int                   `json:"total_summaries"`
	Truncated      bool                  `json:"truncated"`
	TruncatedAt    *int                  `json:"truncated_at,omitempty"`
	Reason         chat.TruncationReason `json:"truncation_reason,omitempty"`
	Items          []chat.Item           `json:"summaries"`

	channelID *string
}

// Global reports whether the context spans every channel.
func (c *ChatContext) Global() bool {
	return c.Scope == validation.GlobalScope
}

// ChatRequest is one user turn.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChatRequest struct {
	Scope          string
	Message        string
	Model          string
	ConversationID *uuid.UUID
}

// ChatReply is the assistant's answer to a ChatRequest.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChatReply struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Response       string    `json:"response"`
	ModelUsed      string    `json:"model_used"`
	SummariesUsed  int       `json:"summaries_used"`
	ContextReduced bool      `json:"context_reduced"`
	Truncated      bool      `json:"context_truncated"`
}

// Conversation is a conversation together with its messages.
type Conversation struct {
	*dbmodels.ChatConversation
	Messages []*dbmodels.ChatMessage `json:"messages"`
}

// ChatDeps are the collaborators of ChatService. Metrics may be nil.
type ChatDeps struct {
	Summaries  repository.SummaryRepository
	Channels   repository.ChannelRepository
	Chats      repository.ChatRepository
	Summarizer Summarizer
	Metrics    *metrics.Metrics
}

// ChatService answers questions grounded in stored summaries.
type ChatService struct {
	summaries  repository.SummaryRepository
	channels   repository.ChannelRepository
	chats      repository.ChatRepository
	summarizer Summarizer
	metrics    *metrics.Metrics
	opts       ChatOptions
	policy     chat.RetryPolicy
	logger     *zap.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(deps ChatDeps, opts ChatOptions) *ChatService {
	if opts.HistoryMessages <= 0 {
		opts.HistoryMessages = chat.DefaultHistoryMessages
	}
	return &ChatService{
		summaries:  deps.Summaries,
		channels:   deps.Channels,
		chats:      deps.Chats,
		summarizer: deps.Summarizer,
		metrics:    deps.Metrics,
		opts:       opts,
		policy:     chat.DefaultRetryPolicy(opts.RetrySummaries),
		logger:     logger.Named("chat"),
	}
}

// BuildChatContext assembles the current summaries of a channel, or of every
// channel for the global scope, within the configured budget.
func (s *ChatService) BuildChatContext(ctx context.Context, scope string) (*ChatContext, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return nil, &ValidationError{Message: "chat scope is required"}
	}

	cc := &ChatContext{Scope: scope, ScopeName: globalScopeName}
	if scope != validation.GlobalScope {
		channel, err := s.channels.GetChannelByID(ctx, scope)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, &NotFoundError{Resource: "channel", ID: scope}
			}
			return nil, fmt.Errorf("get channel: %w", err)
		}
		cc.ScopeName = channel.Name
		cc.channelID = &channel.ChannelID
	}

	rows, err := s.summaries.ListCurrentForChat(ctx, cc.channelID, chatFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("list summaries for chat: %w", err)
	}

	items := make([]chat.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, chat.Item{
			VideoID:     r.VideoID,
			Title:       r.Title,
			Text:        r.Text,
			Model:       r.ModelUsed,
			PublishedAt: r.PublishedAt,
		})
	}

	built := chat.Build(items, s.opts.MaxContextChars, s.opts.MaxSummaries)
	if built.Truncated {
		s.metrics.ChatTruncated()
		s.logger.Info("Chat context truncated",
			zap.String("scope", scope),
			zap.Int("included", built.Included()),
			zap.Int("total", built.Total),
			zap.String("reason", string(built.Reason)),
		)
	}

	cc.Text = built.Render(cc.ScopeName)
	cc.SummaryCount = built.Included()
	cc.TotalSummaries = built.Total
	cc.Truncated = built.Truncated
	cc.TruncatedAt = built.TruncatedAt
	cc.Reason = built.Reason
	cc.Items = built.Items
	return cc, nil
}

// SendMessage answers req and stores both turns. A new conversation is
// started when req.ConversationID is nil. Size or rate rejections are retried
// once with a reduced context.
func (s *ChatService) SendMessage(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &ValidationError{Message: "message is required"}
	}

	cc, err := s.BuildChatContext(ctx, req.Scope)
	if err != nil {
		return nil, err
	}
	if cc.SummaryCount == 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("no video summaries available for %s", cc.ScopeName)}
	}

	var (
		conv    *dbmodels.ChatConversation
		history []dbmodels.ChatMessage
	)
	if req.ConversationID != nil {
		conv, history, err = s.loadHistory(ctx, *req.ConversationID, cc)
		if err != nil {
			return nil, err
		}
	}

	model := req.Model
	if model == "" {
		model = s.opts.DefaultModel
	}

	var modelUsed string
	outcome, err := s.policy.Do(ctx, cc.Items, func(ctx context.Context, items []chat.Item, reduced bool) (string, error) {
		contextText := cc.Text
		if reduced {
			s.logger.Warn("Retrying chat with reduced context",
				zap.String("scope", cc.Scope),
				zap.Int("summaries", len(items)),
			)
			reducedCtx := chat.Build(items, s.opts.MaxContextChars, s.opts.MaxSummaries)
			reducedCtx.Total = cc.TotalSummaries
			contextText = reducedCtx.Render(cc.ScopeName)
		}

		result, err := s.summarizer.Complete(ctx, model, chat.Prompt(chat.PromptInput{
			ScopeName:    cc.ScopeName,
			Global:       cc.Global(),
			Context:      contextText,
			History:      history,
			Message:      message,
			HistoryLimit: s.opts.HistoryMessages,
		}))
		if err != nil {
			return "", err
		}
		modelUsed = result.Model
		return result.Text, nil
	})
	if err != nil {
		return nil, err
	}

	answer := outcome.Text
	if outcome.Reduced {
		answer += chat.ReducedContextNote
	}

	if conv == nil {
		conv = &dbmodels.ChatConversation{
			Title:     chat.Title(message),
			ModelUsed: modelUsed,
			ChatType:  dbmodels.ChatTypeGlobal,
		}
		if !cc.Global() {
			conv.ChannelID = cc.channelID
			conv.OriginalChannelID = cc.channelID
			conv.ChatType = dbmodels.ChatTypeChannel
		}
		if err := s.chats.CreateConversation(ctx, conv); err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
	}

	if err := s.chats.AppendMessages(ctx, conv.ID,
		&dbmodels.ChatMessage{ID: uuid.New(), ConversationID: conv.ID, Role: dbmodels.ChatRoleUser, Content: message},
		&dbmodels.ChatMessage{ID: uuid.New(), ConversationID: conv.ID, Role: dbmodels.ChatRoleAssistant, Content: answer},
	); err != nil {
		return nil, fmt.Errorf("store chat messages: %w", err)
	}

	return &ChatReply{
		ConversationID: conv.ID,
		Response:       answer,
		ModelUsed:      modelUsed,
		SummariesUsed:  len(outcome.Items),
		ContextReduced: outcome.Reduced,
		Truncated:      cc.Truncated,
	}, nil
}

// ListConversations lists the conversations of a scope, most recent first.
func (s *ChatService) ListConversations(ctx context.Context, scope string, limit int) ([]*dbmodels.ChatConversation, error) {
	if strings.TrimSpace(scope) == "" {
		return nil, &ValidationError{Message: "chat scope is required"}
	}
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	convs, err := s.chats.ListConversations(ctx, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// GetConversation returns a conversation and its messages in order.
func (s *ChatService) GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	conv, err := s.getConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	messages, err := s.chats.RecentMessages(ctx, id, 1000)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return &Conversation{ChatConversation: conv, Messages: messages}, nil
}

// DeleteConversation removes a conversation and its messages.
func (s *ChatService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	if err := s.chats.DeleteConversation(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return &NotFoundError{Resource: "conversation", ID: id.String()}
		}
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

func (s *ChatService) getConversation(ctx context.Context, id uuid.UUID) (*dbmodels.ChatConversation, error) {
	conv, err := s.chats.GetConversation(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, &NotFoundError{Resource: "conversation", ID: id.String()}
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

func (s *ChatService) loadHistory(ctx context.Context, id uuid.UUID, cc *ChatContext) (*dbmodels.ChatConversation, []dbmodels.ChatMessage, error) {
	conv, err := s.getConversation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if conversationScope(conv) != cc.Scope {
		return nil, nil, &ValidationError{Message: fmt.Sprintf("conversation %s belongs to another chat scope", id)}
	}

	recent, err := s.chats.RecentMessages(ctx, id, s.opts.HistoryMessages)
	if err != nil {
		return nil, nil, fmt.Errorf("list messages: %w", err)
	}
	history := make([]dbmodels.ChatMessage, 0, len(recent))
	for _, m := range recent {
		history = append(history, *m)
	}
	return conv, history, nil
}

func conversationScope(conv *dbmodels.ChatConversation) string {
	if conv.ChatType == dbmodels.ChatTypeGlobal || conv.OriginalChannelID == nil {
		return validation.GlobalScope
	}
	return *conv.OriginalChannelID
}
