package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ad-tracker/video-summarizer-go/internal/chapters"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

var timedLine = regexp.MustCompile(`\[(\d{1,2}:\d{2}(?::\d{2})?)\]`)

// ToPromptText renders entries grouped by chapter for the model:
//
//	=== <title> (starts at <ts>) ===
//	[<ts>] <text>
//
// Chapters without entries are omitted.
func ToPromptText(entries []models.TranscriptEntry, chs []models.Chapter) string {
	var b strings.Builder
	for _, seg := range Partition(entries, chs) {
		if len(seg.Entries) == 0 || seg.Chapter == nil {
			continue
		}
		fmt.Fprintf(&b, "\n=== %s (starts at %s) ===\n", seg.Chapter.Title, chapters.FormatTimestamp(float64(seg.Chapter.Time)))
		for _, e := range seg.Entries {
			fmt.Fprintf(&b, "[%s] %s\n", chapters.FormatTimestamp(e.Time), e.Text)
		}
	}
	return b.String()
}

// OrganizeByChapters reorganizes a timestamped transcript string by chapter.
// The content is returned unchanged when it carries no timestamps or no entry
// falls inside a chapter.
func OrganizeByChapters(content string, chs []models.Chapter) string {
	if len(chs) == 0 {
		return content
	}
	entries := ParseTimedLines(content)
	if len(entries) == 0 {
		return content
	}
	if organized := ToPromptText(entries, chs); organized != "" {
		return organized
	}
	return content
}

// ParseTimedLines recovers entries from lines carrying a "[MM:SS]" or
// "[HH:MM:SS]" marker. Lines without a marker are ignored.
func ParseTimedLines(text string) []models.TranscriptEntry {
	var out []models.TranscriptEntry
	for _, line := range strings.Split(text, "\n") {
		m := timedLine.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		seconds, ok := chapters.ParseTimestamp(line[m[2]:m[3]])
		if !ok {
			continue
		}
		rest := strings.TrimSpace(line[:m[0]] + line[m[1]:])
		out = append(out, NewEntry(float64(seconds), rest))
	}
	return out
}
