// Package openai adapts the OpenAI chat completions API to llm.Provider.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/ad-tracker/video-summarizer-go/internal/service/llm"
)

// Config holds the configuration for the OpenAI client.
type Config struct {
	APIKey  string
	BaseURL string        // optional, e.g. "https://api.openai.com/v1"
	Timeout time.Duration // request timeout (default: 2 minutes)
	Models  []string      // catalog override
}

// Client implements llm.Provider on top of go-openai.
type Client struct {
	api    *goopenai.Client
	models []string
}

// NewClient creates a new OpenAI client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 2 * time.Minute
	}

	cfg := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: config.Timeout}

	models := config.Models
	if len(models) == 0 {
		models = llm.DefaultCatalog()[llm.OpenAI]
	}

	return &Client{api: goopenai.NewClientWithConfig(cfg), models: models}
}

// Name returns llm.OpenAI.
func (c *Client) Name() llm.ProviderName { return llm.OpenAI }

// Models returns the models this client offers.
func (c *Client) Models() []string { return c.models }

// Complete sends a system+user chat completion and returns the first choice.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", llm.NewCallError(llm.OpenAI, req.Model, statusOf(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", llm.NewCallError(llm.OpenAI, req.Model, 0, errors.New("response contained no choices"))
	}

	return resp.Choices[0].Message.Content, nil
}

func statusOf(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

