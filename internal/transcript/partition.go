// Package transcript slices time-coded transcripts into chapter segments and
// renders them as readable text, prompt input and subtitle formats.
package transcript

import (
	"github.com/ad-tracker/video-summarizer-go/internal/chapters"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

// Segment holds the entries falling inside one chapter's window. Chapter is
// nil for the implicit whole-transcript segment.
type Segment struct {
	Chapter *models.Chapter
	Entries []models.TranscriptEntry
}

// Partition assigns each entry to the chapter whose half-open window
// [start, nextStart) contains it. Entries before the first chapter are
// dropped. With no chapters the whole transcript is one segment.
func Partition(entries []models.TranscriptEntry, chs []models.Chapter) []Segment {
	if len(chs) == 0 {
		return []Segment{{Entries: entries}}
	}

	segments := make([]Segment, len(chs))
	for i := range chs {
		segments[i].Chapter = &chs[i]
	}

	for _, e := range entries {
		idx := chapterIndex(e.Time, chs)
		if idx < 0 {
			continue
		}
		segments[idx].Entries = append(segments[idx].Entries, e)
	}
	return segments
}

// chapterIndex returns the index of the last chapter starting at or before t,
// or -1 when t precedes every chapter. chs must be sorted by time.
func chapterIndex(t float64, chs []models.Chapter) int {
	idx := -1
	for i, ch := range chs {
		if float64(ch.Time) <= t {
			idx = i
			continue
		}
		break
	}
	return idx
}

// NewEntry builds an entry with its formatted time filled in.
func NewEntry(t float64, text string) models.TranscriptEntry {
	return models.TranscriptEntry{Time: t, Text: text, FormattedTime: chapters.FormatTimestamp(t)}
}
