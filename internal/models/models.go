// Package models contains the API DTOs and event payloads of the video summarizer service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SummaryEventType names a summary lifecycle event.
type SummaryEventType string

// SummaryEventType constants double as RabbitMQ routing keys.
const (
	SummaryEventCreated        SummaryEventType = "summary.created"
	SummaryEventCurrentChanged SummaryEventType = "summary.current_changed"
	SummaryEventDeleted        SummaryEventType = "summary.deleted"
)

// SummaryEvent is published whenever the summary set of a video changes.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type SummaryEvent struct {
	ID            uuid.UUID        `json:"id"`
	Type          SummaryEventType `json:"event_type"`
	VideoID       string           `json:"video_id"`
	ChapterTime   *int             `json:"chapter_time,omitempty"`
	SummaryID     int64            `json:"summary_id"`
	VersionNumber int              `json:"version_number,omitempty"`
	ModelUsed     string           `json:"model_used,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// NewSummaryEvent stamps a new event with an ID and time.
func NewSummaryEvent(eventType SummaryEventType, videoID string, summaryID int64) *SummaryEvent {
	return &SummaryEvent{
		ID:         uuid.New(),
		Type:       eventType,
		VideoID:    videoID,
		SummaryID:  summaryID,
		OccurredAt: time.Now().UTC(),
	}
}

// ImportVideoRequest imports a video by ID.
type ImportVideoRequest struct {
	VideoID         string `json:"video_id" binding:"required,max=50"`
	ForceTranscript bool   `json:"force_transcript"`
}

// TranscriptEntryDTO is one caption line in a transcript upload.
type TranscriptEntryDTO struct {
	Time float64 `json:"time" binding:"min=0"`
	Text string  `json:"text" binding:"required"`
}

// TranscriptUploadRequest carries a transcript acquired out of band, either as
// entries or as a WebVTT document.
type TranscriptUploadRequest struct {
	Entries  []TranscriptEntryDTO `json:"entries"`
	VTT      string               `json:"vtt"`
	Language string               `json:"language"`
}

// RegenerateSummaryRequest pins a model and optionally a stored prompt.
type RegenerateSummaryRequest struct {
	Model    string `json:"model"`
	PromptID *int64 `json:"prompt_id"`
}

// ChapterSummaryRequest asks for a summary of one chapter.
type ChapterSummaryRequest struct {
	Title string `json:"title" binding:"required,max=500"`
	Force bool   `json:"force"`
}

// PromptRequest creates or updates a stored prompt.
type PromptRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	PromptText  string  `json:"prompt_text" binding:"required"`
	Description *string `json:"description"`
	IsDefault   bool    `json:"is_default"`
}

// ChatMessageRequest is one user turn in a chat.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ChatMessageRequest struct {
	Message        string     `json:"message" binding:"required"`
	Model          string     `json:"model"`
	ConversationID *uuid.UUID `json:"conversation_id"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}
