// Package sanitize cleans user prompts before they reach the model and derives
// component names from them.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/domain"
)

// Redacted replaces every matched injection pattern.
const Redacted = "[REDACTED]"

type injectionPattern struct {
	source string
	re     *regexp.Regexp
}

// Sanitizer redacts prompt-injection phrases and bounds prompt length.
type Sanitizer struct {
	patterns  []injectionPattern
	maxLength int
}

// NewSanitizer compiles the configured patterns case-insensitively.
func NewSanitizer(cfg config.SanitizeConfig) (*Sanitizer, error) {
	s := &Sanitizer{maxLength: cfg.MaxPromptLength}
	for _, p := range cfg.InjectionPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, domain.NewError("prompt", "", 0, fmt.Sprintf("invalid injection pattern %q", p), err)
		}
		s.patterns = append(s.patterns, injectionPattern{source: p, re: re})
	}
	return s, nil
}

// Sanitize returns the cleaned prompt and one warning per matched pattern,
// plus one for truncation.
func (s *Sanitizer) Sanitize(input string) (string, []string) {
	var warnings []string
	cleaned := input
	for _, p := range s.patterns {
		if !p.re.MatchString(input) {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("Blocked suspicious pattern: '%s'", p.source))
		cleaned = p.re.ReplaceAllLiteralString(cleaned, Redacted)
	}

	if s.maxLength > 0 && utf8.RuneCountInString(cleaned) > s.maxLength {
		cleaned = string([]rune(cleaned)[:s.maxLength])
		warnings = append(warnings, fmt.Sprintf("Prompt truncated to %d characters.", s.maxLength))
	}

	return strings.TrimSpace(cleaned), warnings
}
