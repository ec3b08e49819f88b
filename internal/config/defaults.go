package config

import "time"

// DefaultInjectionPatterns are the case-insensitive regular expressions redacted from
// user prompts before they reach the model.
var DefaultInjectionPatterns = []string{
	`ignore previous instructions`,
	`ignore above`,
	`disregard.*instructions`,
	`you are now`,
	`act as`,
	`pretend.*you`,
	`forget.*instructions`,
	`new instruction`,
	`system:`,
	`<\|.*\|>`,
	`\[INST\]`,
	`###\s*instruction`,
	`you are a senior`,
	`your job is to`,
	`return only`,
	`do not produce explanations`,
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		DesignTokens: "design_tokens.json",
		Model: ModelConfig{
			Provider:    "anthropic",
			Name:        "claude-sonnet-4-20250514",
			MaxTokens:   3000,
			Temperature: 0.2,
			Timeout:     120 * time.Second,
		},
		Sanitize: SanitizeConfig{
			MaxPromptLength:   500,
			InjectionPatterns: append([]string(nil), DefaultInjectionPatterns...),
		},
		Validation: ValidationConfig{
			RequiredMarkers: []string{"selector:", "templateUrl:", "styleUrls:"},
			RequiredTokens: []string{
				TokenPrimaryColor,
				TokenSecondaryColor,
				TokenBorderRadius,
				TokenFontFamily,
				TokenPadding,
				TokenShadow,
			},
		},
		Output: OutputConfig{
			Directory: "output_component",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".comparch/history.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
