package repository

import (
	"context"
	"fmt"

	"github.com/ad-tracker/video-summarizer-go/internal/db"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository stores chat conversations and their messages.
type ChatRepository interface {
	CreateConversation(ctx context.Context, conv *models.ChatConversation) error
	GetConversation(ctx context.Context, id uuid.UUID) (*models.ChatConversation, error)

	// ListConversations lists conversations for a scope key (a channel ID or
	// "global"), most recently active first.
	ListConversations(ctx context.Context, scope string, limit int) ([]*models.ChatConversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) error

	// AppendMessages inserts messages and touches the conversation's updated_at.
	AppendMessages(ctx context.Context, conversationID uuid.UUID, messages ...*models.ChatMessage) error

	// RecentMessages returns up to limit most recent messages in chronological order.
	RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*models.ChatMessage, error)
}

type chatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &chatRepository{pool: pool}
}

const conversationColumns = `id, channel_id, original_channel_id, title, model_used, chat_type, created_at, updated_at`

func (r *chatRepository) CreateConversation(ctx context.Context, conv *models.ChatConversation) error {
	if conv.ID == uuid.Nil {
		conv.ID = uuid.New()
	}

	query := `
		INSERT INTO chat_conversations (id, channel_id, original_channel_id, title, model_used, chat_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		conv.ID,
		conv.ChannelID,
		conv.OriginalChannelID,
		conv.Title,
		conv.ModelUsed,
		conv.ChatType,
	).Scan(&conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return db.WrapError(err, "create conversation")
	}
	return nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uuid.UUID) (*models.ChatConversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM chat_conversations WHERE id = $1`

	conv, err := scanConversation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, db.WrapError(err, "get conversation")
	}
	return conv, nil
}

func (r *chatRepository) ListConversations(ctx context.Context, scope string, limit int) ([]*models.ChatConversation, error) {
	query := `SELECT ` + conversationColumns + `
		FROM chat_conversations
		WHERE CASE WHEN $1 = 'global' THEN chat_type = 'global' ELSE original_channel_id = $1 END
		ORDER BY updated_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, scope, limit)
	if err != nil {
		return nil, db.WrapError(err, "list conversations")
	}
	defer rows.Close()

	var convs []*models.ChatConversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	return convs, nil
}

func (r *chatRepository) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM chat_conversations WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete conversation")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete conversation %s: %w", id, db.ErrNotFound)
	}
	return nil
}

func (r *chatRepository) AppendMessages(ctx context.Context, conversationID uuid.UUID, messages ...*models.ChatMessage) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, msg := range messages {
			if msg.ID == uuid.Nil {
				msg.ID = uuid.New()
			}
			msg.ConversationID = conversationID

			err := tx.QueryRow(ctx, `
				INSERT INTO chat_messages (id, conversation_id, role, content, created_at)
				VALUES ($1, $2, $3, $4, clock_timestamp())
				RETURNING created_at`,
				msg.ID, msg.ConversationID, msg.Role, msg.Content,
			).Scan(&msg.CreatedAt)
			if err != nil {
				return db.WrapError(err, "insert chat message")
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE chat_conversations SET updated_at = NOW() WHERE id = $1`,
			conversationID,
		); err != nil {
			return db.WrapError(err, "touch conversation")
		}
		return nil
	})
}

func (r *chatRepository) RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at FROM (
			SELECT id, conversation_id, role, content, created_at
			FROM chat_messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list chat messages")
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		msg := &models.ChatMessage{}
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", err)
	}

	return messages, nil
}

func scanConversation(row pgx.Row) (*models.ChatConversation, error) {
	c := &models.ChatConversation{}
	err := row.Scan(
		&c.ID,
		&c.ChannelID,
		&c.OriginalChannelID,
		&c.Title,
		&c.ModelUsed,
		&c.ChatType,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
