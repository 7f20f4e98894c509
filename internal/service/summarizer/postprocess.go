package summarizer

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ad-tracker/video-summarizer-go/internal/chapters"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

// ChapterIndex renders a clickable chapter list with deep links into the video.
func ChapterIndex(chs []models.Chapter, videoID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📚 **Video Chapters** (%d chapters):\n\n", len(chs))
	for _, ch := range chs {
		fmt.Fprintf(&b, "• [%s](https://www.youtube.com/watch?v=%s&t=%ds) - %s\n",
			ch.Title, videoID, ch.Time, chapters.FormatTimestamp(float64(ch.Time)))
	}
	return b.String()
}

// MetadataBlock renders title, channel, duration and views. Missing fields are
// omitted; an empty string is returned when nothing is known.
func MetadataBlock(info *models.VideoInfo) string {
	if info == nil {
		return ""
	}

	var fields strings.Builder
	if info.Title != "" {
		fmt.Fprintf(&fields, "**Title**: %s\n", info.Title)
	}
	if info.ChannelName != "" {
		fmt.Fprintf(&fields, "**Channel**: %s\n", info.ChannelName)
	}
	if info.DurationSeconds != nil && *info.DurationSeconds > 0 {
		fmt.Fprintf(&fields, "**Duration**: %s\n", chapters.FormatDuration(*info.DurationSeconds))
	}
	if info.ViewCount != nil && *info.ViewCount > 0 {
		fmt.Fprintf(&fields, "**Views**: %s\n", FormatCount(*info.ViewCount))
	}
	if fields.Len() == 0 {
		return ""
	}
	return "📹 **Video Information**:\n\n" + fields.String()
}

// Assemble joins the non-empty prefix sections and the summary with blank lines.
func Assemble(summary string, prefixes ...string) string {
	parts := make([]string, 0, len(prefixes)+1)
	for _, p := range prefixes {
		if p = strings.TrimRight(p, "\n"); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, summary)
	return strings.Join(parts, "\n\n")
}

// countPrinter formats view counts with English digit grouping.
var countPrinter = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators.
func FormatCount(n int64) string {
	return countPrinter.Sprintf("%d", n)
}
