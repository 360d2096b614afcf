// Package summarizer writes short book blurbs with a chat model served over an
// OpenAI-compatible API (Ollama by default).
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"booksearch/internal/book"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434/v1"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// PromptTemplate wraps the JSON description of a book.
const PromptTemplate = `Summarize the information contained in the following JSON object about a book.
Provide just a paragraph of text, in clear English,
summarizing the JSON as one would expect to see on a library or bookstore website, but
with no other preface or text telling me what you're doing. Assume all books have already been released.
Be sure to mention the title and author upfront. Only use information found in the JSON. %s`

var errEmptyCompletion = errors.New("empty completion")

var _ book.Summarizer = (*Client)(nil)

// Config holds configuration for the summarizer client.
type Config struct {
	// BaseURL is the OpenAI-compatible API root (default: Ollama on localhost).
	BaseURL string
	// APIKey is sent as a bearer token. Ollama ignores it.
	APIKey string
	// Timeout bounds each chat request (default: 120s).
	Timeout time.Duration
}

// chatCompleter is the part of the go-openai client used here.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client asks a chat model for book summaries.
type Client struct {
	chat    chatCompleter
	timeout time.Duration
	log     *zap.Logger
}

// NewClient creates a summarizer client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "ollama"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		chat:    openai.NewClientWithConfig(config),
		timeout: cfg.Timeout,
		log:     log,
	}
}

// Summarize returns a one-paragraph summary of payload, or "" if the model could
// not produce one. Errors are logged, never returned.
func (c *Client) Summarize(ctx context.Context, payload, model string) string {
	if model == "" {
		model = DefaultModel
	}
	summary, err := c.complete(ctx, payload, model)
	if err != nil {
		c.log.Warn("unable to summarize book", zap.String("model", model), zap.Error(err))
		return ""
	}
	return summary
}

// SummarizeMany sends one request per payload, all at once. The result is aligned
// with payloads.
func (c *Client) SummarizeMany(ctx context.Context, payloads []string, model string) []string {
	summaries := make([]string, len(payloads))
	var g errgroup.Group
	for i, payload := range payloads {
		g.Go(func() error {
			summaries[i] = c.Summarize(ctx, payload, model)
			return nil
		})
	}
	_ = g.Wait()
	return summaries
}

func (c *Client) complete(ctx context.Context, payload, model string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(PromptTemplate, payload),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errEmptyCompletion
	}
	return content, nil
}
