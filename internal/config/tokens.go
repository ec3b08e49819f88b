package config

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/frherrer/component-architect/internal/domain"
)

// Canonical design token names.
const (
	TokenPrimaryColor   = "primary-color"
	TokenSecondaryColor = "secondary-color"
	TokenBorderRadius   = "border-radius"
	TokenFontFamily     = "font-family"
	TokenPadding        = "padding"
	TokenShadow         = "shadow"
)

// TokenNames lists the canonical token names in check order.
var TokenNames = []string{
	TokenPrimaryColor,
	TokenSecondaryColor,
	TokenBorderRadius,
	TokenFontFamily,
	TokenPadding,
	TokenShadow,
}

var tokenAliases = map[string]string{
	"card-padding": TokenPadding,
	"card-shadow":  TokenShadow,
}

// IsTokenName reports whether name is a canonical token name or an accepted alias.
func IsTokenName(name string) bool {
	canon := CanonicalTokenName(name)
	for _, n := range TokenNames {
		if n == canon {
			return true
		}
	}
	return false
}

// CanonicalTokenName maps any accepted spelling of a token name to its canonical form.
func CanonicalTokenName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if alias, ok := tokenAliases[n]; ok {
		return alias
	}
	return n
}

// Tokens is the immutable design token set. The zero value is an empty set.
type Tokens struct {
	values map[string]string
}

// NewTokens builds a token set from raw key/value pairs, normalizing key spellings.
// Keys outside the canonical set are kept so their color values count as allowed.
func NewTokens(raw map[string]string) Tokens {
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		values[CanonicalTokenName(k)] = strings.TrimSpace(v)
	}
	return Tokens{values: values}
}

// LoadTokens reads a JSON or YAML design token file.
func LoadTokens(path string) (Tokens, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tokens{}, domain.NewErrorWithSuggestion("tokens", path, 0, "failed to read design token file",
			"set design_tokens in the config file", err)
	}

	// yaml.v3 also decodes JSON documents.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Tokens{}, domain.NewError("tokens", path, 0, "failed to parse design token file", err)
	}

	flat := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			flat[k] = val
		case nil:
		default:
			// Scalars only; nested groups are not tokens.
			if s, ok := scalarString(val); ok {
				flat[k] = s
			}
		}
	}

	tokens := NewTokens(flat)
	if tokens.Len() == 0 {
		return Tokens{}, domain.NewError("tokens", path, 0, "design token file declares no tokens", nil)
	}
	return tokens, nil
}

func scalarString(v any) (string, bool) {
	switch v.(type) {
	case int, int64, float64, bool:
		out, err := yaml.Marshal(v)
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(string(out)), true
	}
	return "", false
}

// Get returns the value for a token name in any accepted spelling.
func (t Tokens) Get(name string) string {
	return t.values[CanonicalTokenName(name)]
}

func (t Tokens) Primary() string   { return t.Get(TokenPrimaryColor) }
func (t Tokens) Secondary() string { return t.Get(TokenSecondaryColor) }
func (t Tokens) Radius() string    { return t.Get(TokenBorderRadius) }
func (t Tokens) Font() string      { return t.Get(TokenFontFamily) }
func (t Tokens) Padding() string   { return t.Get(TokenPadding) }
func (t Tokens) Shadow() string    { return t.Get(TokenShadow) }

// Len returns the number of declared tokens.
func (t Tokens) Len() int {
	return len(t.values)
}

// Colors returns the sorted, lowercased set of declared values that are hex colors.
func (t Tokens) Colors() []string {
	seen := make(map[string]bool)
	var colors []string
	for _, v := range t.values {
		if !strings.HasPrefix(v, "#") {
			continue
		}
		c := strings.ToLower(v)
		if !seen[c] {
			seen[c] = true
			colors = append(colors, c)
		}
	}
	sort.Strings(colors)
	return colors
}

// Entries returns a copy of every declared token keyed by canonical name.
func (t Tokens) Entries() map[string]string {
	out := make(map[string]string, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}
