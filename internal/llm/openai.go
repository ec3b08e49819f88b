package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIBaseURL points at a local Ollama server.
const DefaultOpenAIBaseURL = "http://localhost:11434/v1/"

// OpenAIClient calls an OpenAI-compatible chat completions endpoint, such as Ollama.
type OpenAIClient struct {
	inner openai.Client
	opts  Options
}

// NewOpenAIClient creates a client for an OpenAI-compatible server.
func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("model name is required for the openai provider")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOpenAIBaseURL
	}
	if !strings.HasSuffix(opts.BaseURL, "/") {
		opts.BaseURL += "/"
	}
	if opts.APIKey == "" {
		// Ollama ignores the key but the protocol expects one.
		opts.APIKey = "ollama"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIClient{
		inner: openai.NewClient(
			option.WithAPIKey(opts.APIKey),
			option.WithBaseURL(opts.BaseURL),
			option.WithRequestTimeout(timeout),
		),
		opts: opts,
	}, nil
}

// Name returns the provider and model, e.g. "openai/qwen2.5-coder:7b".
func (c *OpenAIClient) Name() string {
	return "openai/" + c.opts.Model
}

// Complete posts a chat completion and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.opts.Temperature),
	}
	if c.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.opts.MaxTokens))
	}

	resp, err := c.inner.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", c.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Ping lists the server's models.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if _, err := c.inner.Models.List(ctx); err != nil {
		return c.classify(err)
	}
	return nil
}

// classify keeps API errors with their status and marks everything else as
// a transport failure.
func (c *OpenAIClient) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai API error (status %d): %w", apiErr.StatusCode, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w at %s: %v", ErrUnreachable, c.opts.BaseURL, err)
}
