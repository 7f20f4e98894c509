package validation

import (
	"strings"
	"testing"

	"github.com/ad-tracker/video-summarizer-go/internal/models"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name             string
		maxMessageLength int
		enabled          bool
	}{
		{
			name:             "enabled validator with 4000 char limit",
			maxMessageLength: 4000,
			enabled:          true,
		},
		{
			name:             "disabled validator",
			maxMessageLength: 10,
			enabled:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.maxMessageLength, tt.enabled)
			if v == nil {
				t.Fatal("New() returned nil")
			}
			if v.maxMessageLength != tt.maxMessageLength {
				t.Errorf("maxMessageLength = %d, want %d", v.maxMessageLength, tt.maxMessageLength)
			}
			if v.validationEnabled != tt.enabled {
				t.Errorf("validationEnabled = %v, want %v", v.validationEnabled, tt.enabled)
			}
		})
	}
}

func TestValidator_ValidateVideoID(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		videoID string
		wantErr bool
	}{
		{name: "valid", enabled: true, videoID: "dQw4w9WgXcQ"},
		{name: "with dash and underscore", enabled: true, videoID: "a-b_c-d_e-f"},
		{name: "too short", enabled: true, videoID: "short", wantErr: true},
		{name: "too long", enabled: true, videoID: "dQw4w9WgXcQx", wantErr: true},
		{name: "invalid characters", enabled: true, videoID: "dQw4w9WgX!Q", wantErr: true},
		{name: "disabled accepts anything", enabled: false, videoID: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(100, tt.enabled).ValidateVideoID(tt.videoID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVideoID(%q) error = %v, wantErr %v", tt.videoID, err, tt.wantErr)
			}
		})
	}
}

func TestValidator_ValidateChatScope(t *testing.T) {
	v := New(100, true)

	if err := v.ValidateChatScope("global"); err != nil {
		t.Errorf("global scope rejected: %v", err)
	}
	if err := v.ValidateChatScope("UCuAXFkgsw1L7xaCfnd5JJOw"); err != nil {
		t.Errorf("channel scope rejected: %v", err)
	}
	if err := v.ValidateChatScope("everything"); err == nil {
		t.Error("expected error for unknown scope")
	}
}

func TestValidator_ValidateChatMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
		errMsg  string
	}{
		{name: "valid", message: "What did they say about generics?"},
		{name: "empty", message: "", wantErr: true, errMsg: "cannot be empty"},
		{name: "whitespace only", message: "   \n", wantErr: true, errMsg: "cannot be empty"},
		{name: "too long", message: strings.Repeat("é", 21), wantErr: true, errMsg: "maximum length of 20"},
		{name: "at limit", message: strings.Repeat("é", 20)},
	}

	v := New(20, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateChatMessage(&models.ChatMessageRequest{Message: tt.message})
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateChatMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestValidator_ValidateChapterTime(t *testing.T) {
	v := New(0, true)
	if err := v.ValidateChapterTime(0); err != nil {
		t.Errorf("chapter at 0 rejected: %v", err)
	}
	if err := v.ValidateChapterTime(-1); err == nil {
		t.Error("expected error for negative chapter time")
	}
}

func TestValidator_ValidateTranscriptUpload(t *testing.T) {
	tests := []struct {
		name    string
		req     models.TranscriptUploadRequest
		wantErr bool
	}{
		{name: "entries", req: models.TranscriptUploadRequest{Entries: []models.TranscriptEntryDTO{{Time: 0, Text: "hi"}}}},
		{name: "vtt", req: models.TranscriptUploadRequest{VTT: "WEBVTT\n\n00:00.000 --> 00:01.000\nhi"}},
		{name: "both", req: models.TranscriptUploadRequest{Entries: []models.TranscriptEntryDTO{{Text: "hi"}}, VTT: "WEBVTT"}, wantErr: true},
		{name: "neither", req: models.TranscriptUploadRequest{}, wantErr: true},
		{name: "negative time", req: models.TranscriptUploadRequest{Entries: []models.TranscriptEntryDTO{{Time: -1, Text: "hi"}}}, wantErr: true},
	}

	v := New(0, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateTranscriptUpload(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTranscriptUpload() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
