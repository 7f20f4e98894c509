package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ad-tracker/video-summarizer-go/internal/models"
)

// GlobalScope selects every channel in chat endpoints.
const GlobalScope = "global"

var (
	videoIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	channelIDRegex = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
)

// Validator checks request input before it reaches the services.
type Validator struct {
	maxMessageLength  int
	validationEnabled bool
}

func New(maxMessageLength int, enabled bool) *Validator {
	return &Validator{
		maxMessageLength:  maxMessageLength,
		validationEnabled: enabled,
	}
}

func (v *Validator) ValidateVideoID(videoID string) error {
	if !v.validationEnabled {
		return nil
	}
	if !videoIDRegex.MatchString(videoID) {
		return fmt.Errorf("invalid video ID format: %s", videoID)
	}
	return nil
}

// ValidateChatScope accepts a channel ID or "global".
func (v *Validator) ValidateChatScope(scope string) error {
	if !v.validationEnabled || scope == GlobalScope {
		return nil
	}
	if !channelIDRegex.MatchString(scope) {
		return fmt.Errorf("invalid chat scope %q: expected a channel ID or %q", scope, GlobalScope)
	}
	return nil
}

func (v *Validator) ValidateChatMessage(req *models.ChatMessageRequest) error {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if !v.validationEnabled {
		return nil
	}
	if v.maxMessageLength > 0 && utf8.RuneCountInString(message) > v.maxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", v.maxMessageLength)
	}
	return nil
}

func (v *Validator) ValidateChapterTime(chapterTime int) error {
	if chapterTime < 0 {
		return fmt.Errorf("chapter time must not be negative: %d", chapterTime)
	}
	return nil
}

// ValidateTranscriptUpload requires exactly one of entries or a VTT body.
func (v *Validator) ValidateTranscriptUpload(req *models.TranscriptUploadRequest) error {
	hasEntries := len(req.Entries) > 0
	hasVTT := strings.TrimSpace(req.VTT) != ""

	switch {
	case hasEntries && hasVTT:
		return fmt.Errorf("provide either entries or vtt, not both")
	case !hasEntries && !hasVTT:
		return fmt.Errorf("transcript upload is empty")
	}

	for i, e := range req.Entries {
		if e.Time < 0 {
			return fmt.Errorf("entry %d has a negative time", i)
		}
	}
	return nil
}
