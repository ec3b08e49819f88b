package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frherrer/component-architect/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.DesignTokens == "" {
		errs = append(errs, "design_tokens must not be empty")
	}

	// Model validation
	switch cfg.Model.Provider {
	case "anthropic", "openai":
	default:
		errs = append(errs, fmt.Sprintf("model.provider must be one of: anthropic, openai (got %q)", cfg.Model.Provider))
	}
	if cfg.Model.Name == "" {
		errs = append(errs, "model.name must not be empty")
	}
	if cfg.Model.Provider == "openai" && cfg.Model.BaseURL == "" {
		errs = append(errs, "model.base_url is required for the openai provider")
	}
	if cfg.Model.MaxTokens <= 0 {
		errs = append(errs, "model.max_tokens must be positive")
	}
	if cfg.Model.Temperature < 0 || cfg.Model.Temperature > 1 {
		errs = append(errs, fmt.Sprintf("model.temperature must be between 0 and 1 (got %v)", cfg.Model.Temperature))
	}
	if cfg.Model.Timeout < 0 {
		errs = append(errs, "model.timeout must not be negative")
	}

	// Sanitize validation
	if cfg.Sanitize.MaxPromptLength <= 0 {
		errs = append(errs, "sanitize.max_prompt_length must be positive")
	}
	for _, p := range cfg.Sanitize.InjectionPatterns {
		if _, err := regexp.Compile("(?i)" + p); err != nil {
			errs = append(errs, fmt.Sprintf("sanitize.injection_patterns entry %q is not a valid regex: %v", p, err))
		}
	}

	// Validation rules
	for _, name := range cfg.Validation.RequiredTokens {
		if !IsTokenName(name) {
			errs = append(errs, fmt.Sprintf("validation.required_tokens has unknown token %q (known: %s)", name, strings.Join(TokenNames, ", ")))
		}
	}

	// Output validation
	if cfg.Output.Directory == "" {
		errs = append(errs, "output.directory must not be empty")
	}

	if cfg.History.Enabled && cfg.History.Path == "" {
		errs = append(errs, "history.path must not be empty when history is enabled")
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}
	if cfg.Logging.Format != "" && cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		errs = append(errs, fmt.Sprintf("logging.format must be text or json (got %q)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
