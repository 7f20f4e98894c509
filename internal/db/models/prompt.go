package models

import "time"

// ChapterPromptName is the stored prompt used for chapter summaries when present.
const ChapterPromptName = "Chapter"

// Prompt is an operator-authored summarization template.
type Prompt struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	PromptText  string    `db:"prompt_text" json:"prompt_text"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsDefault   bool      `db:"is_default" json:"is_default"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
