package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatType distinguishes channel-scoped conversations from global ones.
type ChatType string

// ChatType values.
const (
	ChatTypeChannel ChatType = "channel"
	ChatTypeGlobal  ChatType = "global"
)

// ChatRole is the author of a chat message.
type ChatRole string

// ChatRole values.
const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatConversation groups the messages of one chat session.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChatConversation struct {
	ID                uuid.UUID `db:"id" json:"id"`
	ChannelID         *string   `db:"channel_id" json:"channel_id,omitempty"`
	OriginalChannelID *string   `db:"original_channel_id" json:"original_channel_id,omitempty"`
	Title             string    `db:"title" json:"title"`
	ModelUsed         string    `db:"model_used" json:"model_used"`
	ChatType          ChatType  `db:"chat_type" json:"chat_type"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	Role           ChatRole  `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
