package models

import "time"

// Summary is one immutable version of a video's AI summary.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Summary struct {
	ID            int64     `db:"id" json:"summary_id"`
	VideoID       string    `db:"video_id" json:"video_id"`
	Text          string    `db:"summary_text" json:"summary_text"`
	ModelUsed     string    `db:"model_used" json:"model_used"`
	PromptID      *int64    `db:"prompt_id" json:"prompt_id,omitempty"`
	PromptName    *string   `db:"prompt_name" json:"prompt_name,omitempty"`
	IsCurrent     bool      `db:"is_current" json:"is_current"`
	VersionNumber int       `db:"version_number" json:"version_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ChapterSummary is one immutable version of a single chapter's summary.
// Versions are scoped to (VideoID, ChapterTime).
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChapterSummary struct {
	ID            int64     `db:"id" json:"chapter_summary_id"`
	VideoID       string    `db:"video_id" json:"video_id"`
	ChapterTime   int       `db:"chapter_time" json:"chapter_time"`
	ChapterTitle  string    `db:"chapter_title" json:"chapter_title"`
	Text          string    `db:"summary_text" json:"summary_text"`
	ModelUsed     string    `db:"model_used" json:"model_used"`
	PromptID      *int64    `db:"prompt_id" json:"prompt_id,omitempty"`
	PromptName    *string   `db:"prompt_name" json:"prompt_name,omitempty"`
	IsCurrent     bool      `db:"is_current" json:"is_current"`
	VersionNumber int       `db:"version_number" json:"version_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ChatSummary is a current summary joined with its video, as read for chat grounding.
type ChatSummary struct {
	VideoID     string     `json:"video_id"`
	Title       string     `json:"title"`
	ChannelID   *string    `json:"channel_id,omitempty"`
	Text        string     `json:"summary_text"`
	ModelUsed   string     `json:"model_used"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
