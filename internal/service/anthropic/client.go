// Package anthropic adapts the Anthropic Messages API to llm.Provider.
package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "https://api.anthropic.com"

// Client implements llm.Provider on top of anthropic-sdk-go.
type Client struct {
	api     sdk.Client
	baseURL string
	models  []string
}

// Config holds the configuration for the Anthropic client
type Config struct {
	BaseURL string        // e.g., "https://api.anthropic.com"
	APIKey  string        // x-api-key header value
	Timeout time.Duration // Request timeout (default: 2 minutes)
	Models  []string      // catalog override
}

// NewClient creates a new Anthropic client. SDK retries are disabled; the
// callers own the retry policy.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 2 * time.Minute
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	models := config.Models
	if len(models) == 0 {
		models = llm.DefaultCatalog()[llm.Anthropic]
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	return &Client{
		api: sdk.NewClient(
			option.WithAPIKey(config.APIKey),
			option.WithBaseURL(baseURL),
			option.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
			option.WithMaxRetries(0),
		),
		baseURL: baseURL,
		models:  models,
	}
}

// Name returns llm.Anthropic.
func (c *Client) Name() llm.ProviderName { return llm.Anthropic }

// Models returns the models this client offers.
func (c *Client) Models() []string { return c.models }

// Complete sends a single user message and returns the concatenated text blocks.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: sdk.Float(req.Temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", llm.NewCallError(llm.Anthropic, req.Model, statusOf(err), err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", llm.NewCallError(llm.Anthropic, req.Model, 0, errors.New("response contained no text content"))
	}

	return sb.String(), nil
}

func statusOf(err error) int {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
