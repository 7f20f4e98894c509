// Package chat assembles the summary context and prompts used to ground
// channel and global chat conversations.
package chat

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TruncationReason names the budget that stopped context assembly.
type TruncationReason string

// Truncation reasons, rendered into the marker line.
const (
	ReasonSummaryLimit TruncationReason = "summary limit"
	ReasonLengthLimit  TruncationReason = "length limit"
)

// Item is one current summary offered as chat context.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Item struct {
	VideoID     string     `json:"video_id"`
	Title       string     `json:"title"`
	Text        string     `json:"summary_text"`
	Model       string     `json:"model_used"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Context is the result of Build.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Context struct {
	// Items holds the included items, in input order.
	Items []Item `json:"-"`
	// Blocks is the concatenation of the included item blocks.
	Blocks      string           `json:"-"`
	Total       int              `json:"total_summaries"`
	Truncated   bool             `json:"truncated"`
	TruncatedAt *int             `json:"truncated_at,omitempty"`
	Reason      TruncationReason `json:"truncation_reason,omitempty"`
}

// Included returns the number of items in the context.
func (c Context) Included() int {
	return len(c.Items)
}

// Block formats item n (1-based).
func Block(n int, item Item) string {
	return fmt.Sprintf("Video %d: %s\nSummary: %s\n", n, item.Title, item.Text)
}

// Build accumulates whole item blocks in order until maxItems items are
// included or the next block would push the block total past charBudget.
// The budget counts characters, not bytes. Blocks are never split.
// Non-positive limits disable the respective check.
func Build(items []Item, charBudget, maxItems int) Context {
	c := Context{Total: len(items)}

	var (
		b    strings.Builder
		used int
	)
	for i, item := range items {
		if maxItems > 0 && i >= maxItems {
			c.truncate(i, ReasonSummaryLimit)
			break
		}
		block := Block(i+1, item)
		n := utf8.RuneCountInString(block)
		if charBudget > 0 && used+n > charBudget {
			c.truncate(i, ReasonLengthLimit)
			break
		}
		used += n
		b.WriteString(block)
		c.Items = append(c.Items, item)
	}

	c.Blocks = b.String()
	return c
}

func (c *Context) truncate(included int, reason TruncationReason) {
	c.Truncated = true
	c.TruncatedAt = &included
	c.Reason = reason
}

// Render returns the full context text: the scope header, the blocks and,
// when truncated, a marker line.
func (c Context) Render(scopeName string) string {
	lines := []string{
		"Channel: " + scopeName,
		fmt.Sprintf("Total videos with summaries: %d", c.Total),
		"",
		"=== VIDEO SUMMARIES ===",
		"",
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	for i, item := range c.Items {
		b.WriteString(Block(i+1, item))
		b.WriteString("\n")
	}
	if c.Truncated && c.TruncatedAt != nil {
		fmt.Fprintf(&b, "... (truncated after %d videos due to %s)", *c.TruncatedAt, c.Reason)
	}
	return strings.TrimRight(b.String(), "\n")
}
