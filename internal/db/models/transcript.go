package models

import "time"

// TranscriptEntry is one caption line. Time is the start offset in seconds.
type TranscriptEntry struct {
	Time          float64 `json:"time"`
	Text          string  `json:"text"`
	FormattedTime string  `json:"formatted_time"`
}

// Transcript is the stored transcript of a video: the raw entries plus the
// readable rendering produced at import time.
type Transcript struct {
	VideoID       string            `db:"video_id" json:"video_id"`
	Entries       []TranscriptEntry `db:"entries" json:"entries"`
	FormattedText string            `db:"formatted_text" json:"formatted_text"`
	Language      *string           `db:"language" json:"language,omitempty"`
	ContentHash   string            `db:"content_hash" json:"content_hash"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}
