package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/domain"
)

var (
	hexColorPattern = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
	fontQuotes      = strings.NewReplacer("'", "", `"`, "")
)

// combined is the text the design-token checks search: styles, then markup.
func combined(files domain.FileSet) string {
	return files.Styles + "\n" + files.Markup
}

// TokenPresenceCheck requires each configured token value to appear literally,
// ignoring case, somewhere in the styles or markup.
type TokenPresenceCheck struct {
	required []string
}

// NewTokenPresenceCheck checks the named tokens; nil means every known token.
func NewTokenPresenceCheck(required []string) *TokenPresenceCheck {
	if required == nil {
		required = config.TokenNames
	}
	return &TokenPresenceCheck{required: append([]string(nil), required...)}
}

func (c *TokenPresenceCheck) Name() string { return "token-presence" }

func (c *TokenPresenceCheck) Check(files domain.FileSet, tokens config.Tokens) []domain.Issue {
	haystack := strings.ToLower(combined(files))
	unquoted := fontQuotes.Replace(haystack)

	var issues []domain.Issue
	for _, name := range c.required {
		label := config.CanonicalTokenName(name)
		expected := tokens.Get(label)
		search := haystack
		if label == config.TokenFontFamily {
			// Font stacks compare without quotes on either side.
			expected = strings.TrimSpace(fontQuotes.Replace(expected))
			search = unquoted
		}
		if expected == "" {
			continue
		}
		if strings.Contains(search, strings.ToLower(expected)) {
			continue
		}
		issues = append(issues, domain.Issue{
			Category: domain.CategoryDesignToken,
			Message:  fmt.Sprintf("Missing %s: token value not used in HTML/CSS.", label),
			Token:    label,
			Expected: expected,
		})
	}
	return issues
}

// ColorPolicyCheck flags every six-digit hex color that is not a declared token value.
type ColorPolicyCheck struct{}

func NewColorPolicyCheck() *ColorPolicyCheck { return &ColorPolicyCheck{} }

func (c *ColorPolicyCheck) Name() string { return "color-policy" }

func (c *ColorPolicyCheck) Check(files domain.FileSet, tokens config.Tokens) []domain.Issue {
	colors := tokens.Colors()
	allowed := make(map[string]bool, len(colors))
	for _, col := range colors {
		allowed[col] = true
	}
	expected := fmt.Sprintf("one of [%s]", strings.Join(colors, ", "))

	var issues []domain.Issue
	for _, literal := range hexColorPattern.FindAllString(combined(files), -1) {
		if allowed[strings.ToLower(literal)] {
			continue
		}
		issues = append(issues, domain.Issue{
			Category: domain.CategoryDesignToken,
			Message:  fmt.Sprintf("Unauthorized color '%s': hex color not in design system.", literal),
			Token:    "color",
			Expected: expected,
			Literal:  literal,
		})
	}
	return issues
}

// CheckTokens runs both design-token checks with the default token list.
func CheckTokens(files domain.FileSet, tokens config.Tokens) []domain.Issue {
	issues := NewTokenPresenceCheck(nil).Check(files, tokens)
	return append(issues, NewColorPolicyCheck().Check(files, tokens)...)
}
