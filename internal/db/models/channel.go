package models

import "time"

// Channel represents a YouTube channel whose videos have been imported.
type Channel struct {
	ChannelID   string    `db:"channel_id" json:"channel_id"`
	Name        string    `db:"name" json:"name"`
	Handle      *string   `db:"handle" json:"handle,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NewChannel creates a new Channel with the given information.
func NewChannel(channelID, name string) *Channel {
	now := time.Now()
	return &Channel{
		ChannelID: channelID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
