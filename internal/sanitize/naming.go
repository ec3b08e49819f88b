package sanitize

import (
	"strings"
	"unicode"
)

// DefaultSlug is used when a prompt yields no usable words.
const DefaultSlug = "app-component"

const maxSlugWords = 4

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "with": true, "and": true, "for": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
}

// Slug converts a prompt into a kebab-case component name.
// e.g. "A login form with email & password" → "login-form-email-password"
func Slug(prompt string) string {
	var b strings.Builder
	for _, c := range prompt {
		switch {
		case c < unicode.MaxASCII && (unicode.IsLetter(c) || unicode.IsDigit(c)):
			b.WriteRune(unicode.ToLower(c))
		case unicode.IsSpace(c):
			b.WriteRune(' ')
		}
	}

	var words []string
	for _, w := range strings.Fields(b.String()) {
		if stopWords[w] {
			continue
		}
		words = append(words, w)
		if len(words) == maxSlugWords {
			break
		}
	}
	if len(words) == 0 {
		return DefaultSlug
	}
	return strings.Join(words, "-")
}

// ClassName converts a slug into the component class name.
// e.g. "login-form" → "LoginFormComponent"
func ClassName(slug string) string {
	var b strings.Builder
	for _, part := range strings.Split(slug, "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	b.WriteString("Component")
	return b.String()
}

// Selector returns the element selector for a slug, e.g. "app-login-form".
func Selector(slug string) string {
	return "app-" + slug
}
