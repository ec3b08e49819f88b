// Package llm talks to the language models that generate and repair components.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frherrer/component-architect/internal/config"
)

var (
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrUnreachable wraps transport failures talking to the model.
	ErrUnreachable = errors.New("model unreachable")
)

// Model produces a completion for a system and user prompt.
type Model interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Pinger reports whether the model endpoint can be reached.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Client is a Model that can also be pinged.
type Client interface {
	Model
	Pinger
	Name() string
}

// Options are the settings shared by every provider.
type Options struct {
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// OptionsFrom maps the model configuration onto client options.
func OptionsFrom(cfg config.ModelConfig) Options {
	return Options{
		Model:       cfg.Name,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}
}

// New creates the client for the configured provider. apiKey overrides the
// configured key when non-empty.
func New(cfg config.ModelConfig, apiKey string) (Client, error) {
	opts := OptionsFrom(cfg)
	if apiKey != "" {
		opts.APIKey = apiKey
	}
	switch cfg.Provider {
	case "anthropic", "":
		return NewAnthropicClient(opts)
	case "openai":
		return NewOpenAIClient(opts)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
