package service

import (
	"errors"
	"testing"

	"github.com/ad-tracker/video-summarizer-go/internal/service/transcripts"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Message: "test validation error"}

	if err.Error() != "test validation error" {
		t.Errorf("ValidationError.Error() = %s, want 'test validation error'", err.Error())
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Resource: "video", ID: "dQw4w9WgXcQ"}

	if got, want := err.Error(), "video not found: dQw4w9WgXcQ"; got != want {
		t.Errorf("NotFoundError.Error() = %s, want %s", got, want)
	}
}

func TestProcessingError(t *testing.T) {
	tests := []struct {
		name string
		err  *ProcessingError
		want string
	}{
		{
			name: "without cause",
			err:  &ProcessingError{Message: "test error", Cause: nil},
			want: "test error: <nil>",
		},
		{
			name: "with cause",
			err:  &ProcessingError{Message: "test error", Cause: &ValidationError{Message: "cause"}},
			want: "test error: cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ProcessingError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessingError_Unwrap(t *testing.T) {
	err := &ProcessingError{Message: "load transcript", Cause: transcripts.ErrNoTranscriptAvailable}

	if !errors.Is(err, transcripts.ErrNoTranscriptAvailable) {
		t.Error("errors.Is() did not reach the wrapped cause")
	}
}
