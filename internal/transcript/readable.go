package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ad-tracker/video-summarizer-go/internal/chapters"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

// Paragraph thresholds, in sentences.
const (
	FlatSentencesPerParagraph    = 5
	ChapterSentencesPerParagraph = 4
)

var (
	sentenceEnd     = regexp.MustCompile(`[.!?]+`)
	transitionStart = regexp.MustCompile(`^(so|now|well|okay|alright|anyway|first|second|next)\b`)
)

// ToReadableText renders the transcript as paragraphs. Only when there is more
// than one chapter is it sectioned with "## <title> [<ts>]" headers; empty
// chapters get no section.
func ToReadableText(entries []models.TranscriptEntry, chs []models.Chapter) string {
	if len(chs) <= 1 {
		return GroupParagraphs(entries, FlatSentencesPerParagraph)
	}

	var sections []string
	for _, seg := range Partition(entries, chs) {
		body := GroupParagraphs(seg.Entries, ChapterSentencesPerParagraph)
		if body == "" {
			continue
		}
		header := fmt.Sprintf("## %s [%s]", seg.Chapter.Title, chapters.FormatTimestamp(float64(seg.Chapter.Time)))
		sections = append(sections, header+"\n"+body)
	}
	return strings.Join(sections, "\n\n")
}

// GroupParagraphs joins entries into paragraphs. A paragraph closes once it
// holds at least threshold sentences and the latest entry either ends a
// sentence or opens with a transition word.
func GroupParagraphs(entries []models.TranscriptEntry, threshold int) string {
	var (
		paragraphs []string
		current    []string
		sentences  int
	)

	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		current = append(current, text)
		sentences += max(1, len(sentenceEnd.FindAllStringIndex(text, -1)))

		if sentences >= threshold && naturalBreak(text) {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
			sentences = 0
		}
	}

	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return strings.Join(paragraphs, "\n\n")
}

func naturalBreak(text string) bool {
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?") {
		return true
	}
	return transitionStart.MatchString(strings.ToLower(text))
}
