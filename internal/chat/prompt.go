package chat

import (
	"fmt"
	"strings"

	"github.com/ad-tracker/video-summarizer-go/internal/db/models"
)

// DefaultHistoryMessages is how many earlier messages are replayed.
const DefaultHistoryMessages = 10

// TitleLength bounds generated conversation titles.
const TitleLength = 50

// ReducedContextNote is appended to answers produced after the context was
// reduced.
const ReducedContextNote = "\n\n*Note: Response based on limited summaries due to token constraints.*"

const instructions = `INSTRUCTIONS:
- Answer questions directly based on the video summaries provided
- Be conversational and friendly
- Provide specific examples from the videos when relevant
- Do NOT ask for transcripts, additional information, or clarification
- You already have all the information you need`

// PromptInput is everything needed to render a chat prompt.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type PromptInput struct {
	ScopeName string
	Global    bool
	Context   string
	History   []models.ChatMessage
	Message   string
	// HistoryLimit bounds replayed messages; zero means DefaultHistoryMessages.
	HistoryLimit int
}

// Prompt renders the grounding prompt for one chat turn.
func Prompt(in PromptInput) string {
	var b strings.Builder

	if in.Global {
		b.WriteString("You are a knowledgeable AI assistant having a conversation about YouTube content across all tracked channels.\n\n")
		b.WriteString("You have access to AI-generated summaries from videos on every channel. Use this information to answer questions naturally, and connect ideas across channels when it helps.\n\n")
		b.WriteString("ROLE: You are a helpful assistant discussing these channels' content with a user.\n\n")
	} else {
		fmt.Fprintf(&b, "You are a knowledgeable AI assistant having a conversation about the YouTube channel %q.\n\n", in.ScopeName)
		b.WriteString("You have complete access to AI-generated summaries from all videos on this channel. Use this information to answer questions naturally and conversationally.\n\n")
		b.WriteString("ROLE: You are a helpful assistant discussing this YouTube channel's content with a user.\n\n")
	}

	b.WriteString(instructions)
	b.WriteString("\n\nCHANNEL SUMMARIES:\n")
	b.WriteString(in.Context)
	b.WriteString("\n\nCONVERSATION HISTORY:\n")

	limit := in.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryMessages
	}
	history := in.History
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	for _, m := range history {
		if m.Role == models.ChatRoleUser {
			fmt.Fprintf(&b, "Human: %s\n", m.Content)
		} else {
			fmt.Fprintf(&b, "Assistant: %s\n", m.Content)
		}
	}

	fmt.Fprintf(&b, "\nHuman: %s\n\nAssistant:", in.Message)
	return b.String()
}

// Title derives a conversation title from its first message.
func Title(message string) string {
	runes := []rune(strings.TrimSpace(message))
	if len(runes) <= TitleLength {
		return string(runes)
	}
	return string(runes[:TitleLength]) + "..."
}
