package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	inner anthropic.Client
	opts  Options
}

// NewAnthropicClient creates a client. An API key is required.
func NewAnthropicClient(opts Options) (*AnthropicClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is not set (use ANTHROPIC_API_KEY or 'comparch auth set')")
	}
	if opts.Model == "" {
		opts.Model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 3000
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	return &AnthropicClient{
		inner: anthropic.NewClient(reqOpts...),
		opts:  opts,
	}, nil
}

// Name returns the provider and model, e.g. "anthropic/claude-sonnet-4-20250514".
func (c *AnthropicClient) Name() string {
	return "anthropic/" + c.opts.Model
}

// Complete sends one system+user exchange and concatenates the text blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.opts.Model),
		MaxTokens:   int64(c.opts.MaxTokens),
		Temperature: anthropic.Float(c.opts.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", classifyAnthropicError(err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(variant.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Ping lists models to confirm the endpoint and key are usable.
func (c *AnthropicClient) Ping(ctx context.Context) error {
	if _, err := c.inner.Models.List(ctx, anthropic.ModelListParams{}); err != nil {
		return classifyAnthropicError(err)
	}
	return nil
}

// classifyAnthropicError keeps API errors as they are and marks everything
// else as a transport failure.
func classifyAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("anthropic API error (status %d): %w", apiErr.StatusCode, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
