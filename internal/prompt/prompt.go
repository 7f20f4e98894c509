// Package prompt builds the instructions sent to summarization models.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ad-tracker/video-summarizer-go/internal/chapters"
	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

const analyzeTranscript = "Please analyze this transcript:\n\n"

// Build returns the user prompt for a whole-video summary.
//
// A non-empty customTemplate is used verbatim with the content appended. With
// more than one chapter the prompt asks for a chapter-by-chapter analysis;
// otherwise the flat seven-section layout is used, and a single chapter is
// only mentioned in a trailing footnote.
func Build(content string, chs []models.Chapter, customTemplate string) string {
	if customTemplate != "" {
		return customTemplate + "\n\n" + analyzeTranscript + content
	}
	if len(chs) > 1 {
		return buildChapterAware(content, chs)
	}

	p := flatTemplate + analyzeTranscript + content
	if len(chs) == 1 {
		p += "\n\nChapter structure:\n" + chapterIndex(chs) + "\n"
	}
	return p
}

func buildChapterAware(content string, chs []models.Chapter) string {
	directives := make([]string, len(chs))
	for i, ch := range chs {
		directives[i] = fmt.Sprintf("### %s (%s)\n%s", ch.Title, ts(ch.Time), chapterDirective)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please provide a comprehensive summary of this YouTube video transcript. "+
		"This video has %d chapters with distinct topics. "+
		"Please structure your response to deeply utilize the chapter organization.\n\n", len(chs))
	b.WriteString(chapterOverview)
	b.WriteString(strings.Join(directives, "\n\n"))
	b.WriteString("\n\n")
	b.WriteString(crossChapterSynthesis)
	b.WriteString("Chapter structure for reference:\n")
	b.WriteString(chapterIndex(chs))
	b.WriteString("\n\n")
	b.WriteString(chapterReminder)
	b.WriteString(analyzeTranscript)
	b.WriteString(content)
	return b.String()
}

// chapterIndex renders "- <title> (starts at <ts>)" lines.
func chapterIndex(chs []models.Chapter) string {
	lines := make([]string, len(chs))
	for i, ch := range chs {
		lines[i] = fmt.Sprintf("- %s (starts at %s)", ch.Title, ts(ch.Time))
	}
	return strings.Join(lines, "\n")
}

func ts(seconds int) string {
	return chapters.FormatTimestamp(float64(seconds))
}

// SystemPrompt returns the system message for whole-video summaries.
func SystemPrompt(chapterAware bool) string {
	if chapterAware {
		return chapterAwareSystem
	}
	return plainSystem
}

// ChapterSystemPrompt is the system message for single-chapter summaries.
const ChapterSystemPrompt = "You are a helpful assistant that creates clear, focused summaries of specific video chapters. " +
	"Concentrate on extracting the most valuable insights and actionable advice from the provided chapter content."

// Placeholders substituted in stored chapter templates.
const (
	ChapterTitlePlaceholder      = "{chapter_title}"
	ChapterTranscriptPlaceholder = "{chapter_transcript}"
)

// BuildChapter returns the user prompt for one chapter. A stored template has
// its placeholders replaced; without one the built-in layout is used.
func BuildChapter(title, transcript, storedTemplate string) string {
	if storedTemplate != "" {
		return strings.NewReplacer(
			ChapterTitlePlaceholder, title,
			ChapterTranscriptPlaceholder, transcript,
		).Replace(storedTemplate)
	}

	return "Please provide a comprehensive summary of this specific chapter from a YouTube video.\n\n" +
		"Chapter Title: " + title + "\n\n" +
		chapterFallback +
		"Please analyze this chapter transcript:\n\n" + transcript
}
