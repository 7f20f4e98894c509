package queue

import (
	"encoding/json"
	"fmt"
)

// Task types
const (
	TypeGenerateSummary = "summary:generate"
)

// GenerateSummaryPayload is the payload for summary generation tasks
type GenerateSummaryPayload struct {
	VideoID string `json:"video_id"`
	Force   bool   `json:"force"`
	Source  string `json:"source"`
}

// NewGenerateSummaryTask creates a new summary generation task payload
func NewGenerateSummaryTask(videoID, source string, force bool) (*GenerateSummaryPayload, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	if source == "" {
		source = "manual"
	}

	return &GenerateSummaryPayload{
		VideoID: videoID,
		Force:   force,
		Source:  source,
	}, nil
}

// Marshal serializes the payload to JSON
func (p *GenerateSummaryPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalGenerateSummaryPayload deserializes JSON to payload
func UnmarshalGenerateSummaryPayload(data []byte) (*GenerateSummaryPayload, error) {
	var payload GenerateSummaryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.VideoID == "" {
		return nil, fmt.Errorf("payload has no video ID")
	}
	return &payload, nil
}
