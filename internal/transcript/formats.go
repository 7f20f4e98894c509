package transcript

import (
	"fmt"
	"strings"

	"github.com/ad-tracker/video-summarizer-go/internal/chapters"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

// DefaultTimestampInterval is the spacing of markers in WithTimestamps.
const DefaultTimestampInterval = 30

// WithTimestamps starts a new "[ts] ..." line whenever at least interval
// seconds have passed since the previous marker.
func WithTimestamps(entries []models.TranscriptEntry, interval int) string {
	if interval <= 0 {
		interval = DefaultTimestampInterval
	}

	var (
		lines   []string
		current []string
		last    = -1.0
		started bool
	)

	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}

		if !started || e.Time >= last+float64(interval) {
			if len(current) > 0 {
				lines = append(lines, strings.Join(current, " "))
				current = nil
			}
			ts := e.FormattedTime
			if ts == "" {
				ts = chapters.FormatTimestamp(e.Time)
			}
			current = append(current, "["+ts+"]")
			last = e.Time
			started = true
		}
		current = append(current, text)
	}

	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return strings.Join(lines, "\n")
}

// ToSRT renders entries as SubRip cues. A cue ends where the next one starts,
// the final cue three seconds after its start.
func ToSRT(entries []models.TranscriptEntry) string {
	cues := make([]string, 0, len(entries))
	for i, e := range entries {
		end := e.Time + 3
		if i+1 < len(entries) {
			end = entries[i+1].Time
		}
		cues = append(cues, fmt.Sprintf("%d\n%s --> %s\n%s\n",
			i+1, srtTimestamp(e.Time), srtTimestamp(end), strings.TrimSpace(e.Text)))
	}
	return strings.Join(cues, "\n")
}

func srtTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds*1000 + 0.5)
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	s := (ms % 60_000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// ChapterNavigation renders a numbered chapter list. Entries link into the
// YouTube player when videoID is set, otherwise to "#chapter-<seconds>" anchors.
func ChapterNavigation(chs []models.Chapter, videoID string) string {
	if len(chs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## 📚 Chapters\n\n")
	for i, ch := range chs {
		link := fmt.Sprintf("#chapter-%d", ch.Time)
		if videoID != "" {
			link = fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", videoID, ch.Time)
		}
		fmt.Fprintf(&b, "%d. [%s](%s) - %s\n", i+1, ch.Title, link, chapters.FormatTimestamp(float64(ch.Time)))
	}
	return b.String()
}
