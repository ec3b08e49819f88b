package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frherrer/component-architect/internal/domain"
)

// CheckPresence reports one PARSE issue per empty file, in markup, styles, logic order.
func CheckPresence(files domain.FileSet) []domain.Issue {
	var issues []domain.Issue
	for _, key := range domain.FileKeys {
		if strings.TrimSpace(files.Get(key)) == "" {
			issues = append(issues, domain.Issue{
				Category: domain.CategoryParse,
				File:     key,
				Message:  fmt.Sprintf("%s section missing or empty.", key.FileName()),
			})
		}
	}
	return issues
}

type delimiterPair struct {
	open, close byte
}

var delimiterPairs = []delimiterPair{{'{', '}'}, {'(', ')'}, {'[', ']'}}

// DelimiterCheck verifies that braces, parentheses and brackets balance.
// Counts are compared first; nesting order is only checked once every count
// matches, and at most one ordering issue is reported per file.
type DelimiterCheck struct{}

func NewDelimiterCheck() *DelimiterCheck { return &DelimiterCheck{} }

func (c *DelimiterCheck) Name() string { return "delimiters" }

func (c *DelimiterCheck) AppliesTo(key domain.FileKey) bool {
	return key == domain.Logic || key == domain.Styles
}

func (c *DelimiterCheck) Check(key domain.FileKey, content string) []domain.Issue {
	var issues []domain.Issue
	for _, p := range delimiterPairs {
		opens := strings.Count(content, string(p.open))
		closes := strings.Count(content, string(p.close))
		if opens != closes {
			pair := string(p.open) + string(p.close)
			issues = append(issues, domain.Issue{
				Category: domain.CategorySyntax,
				File:     key,
				Message:  fmt.Sprintf("Mismatched '%s' in %s: %d open vs %d close.", pair, key.FileName(), opens, closes),
				Literal:  pair,
			})
		}
	}
	if len(issues) > 0 {
		return issues
	}

	if issue, ok := firstOrderViolation(key, content); ok {
		issues = append(issues, issue)
	}
	return issues
}

func firstOrderViolation(key domain.FileKey, content string) (domain.Issue, bool) {
	closers := map[byte]byte{'}': '{', ')': '(', ']': '['}
	openers := map[byte]byte{'{': '}', '(': ')', '[': ']'}

	var stack []byte
	for i := 0; i < len(content); i++ {
		ch := content[i]
		if _, ok := openers[ch]; ok {
			stack = append(stack, ch)
			continue
		}
		if _, ok := closers[ch]; !ok {
			continue
		}
		if len(stack) == 0 {
			return domain.Issue{
				Category: domain.CategorySyntax,
				File:     key,
				Message:  fmt.Sprintf("Unexpected '%c' at position %d in %s: no matching opener.", ch, i+1, key.FileName()),
				Literal:  string(ch),
				Position: i + 1,
			}, true
		}
		top := stack[len(stack)-1]
		if closers[ch] != top {
			return domain.Issue{
				Category: domain.CategorySyntax,
				File:     key,
				Message:  fmt.Sprintf("Mismatched '%c' at position %d in %s: expected '%c'.", ch, i+1, key.FileName(), openers[top]),
				Literal:  string(ch),
				Position: i + 1,
			}, true
		}
		stack = stack[:len(stack)-1]
	}
	return domain.Issue{}, false
}

var exportClassPattern = regexp.MustCompile(`export\s+class\s+[A-Za-z_$][\w$]*`)

var markerMessages = map[string]string{
	"selector:":    "Missing selector in @Component.",
	"templateUrl:": "Missing templateUrl: must use external HTML file.",
	"styleUrls:":   "Missing styleUrls: must use external CSS file.",
}

// ComponentCheck requires the decorator, the configured metadata markers and an
// exported class in the logic file. Each absence is its own issue.
type ComponentCheck struct {
	markers []string
}

func NewComponentCheck(markers []string) *ComponentCheck {
	return &ComponentCheck{markers: append([]string(nil), markers...)}
}

func (c *ComponentCheck) Name() string { return "component" }

func (c *ComponentCheck) AppliesTo(key domain.FileKey) bool { return key == domain.Logic }

func (c *ComponentCheck) Check(key domain.FileKey, content string) []domain.Issue {
	var issues []domain.Issue
	add := func(msg, literal string) {
		issues = append(issues, domain.Issue{
			Category: domain.CategorySyntax,
			File:     key,
			Message:  msg,
			Literal:  literal,
		})
	}

	if !strings.Contains(content, "@Component") {
		add("Missing @Component decorator.", "@Component")
	}
	for _, m := range c.markers {
		if strings.Contains(content, m) {
			continue
		}
		msg, ok := markerMessages[m]
		if !ok {
			msg = fmt.Sprintf("Missing required marker '%s' in %s.", m, key.FileName())
		}
		add(msg, m)
	}
	if !exportClassPattern.MatchString(content) {
		add("Missing export class.", "export class")
	}
	return issues
}

var (
	tagPattern     = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9-]*)(\s[^>]*)?>`)
	commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
)

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// TagBalanceCheck matches open and close tags in the markup with a stack.
// A mismatched close unwinds the stack to the matching open, reporting every
// discarded open as unclosed.
type TagBalanceCheck struct{}

func NewTagBalanceCheck() *TagBalanceCheck { return &TagBalanceCheck{} }

func (c *TagBalanceCheck) Name() string { return "tags" }

func (c *TagBalanceCheck) AppliesTo(key domain.FileKey) bool { return key == domain.Markup }

func (c *TagBalanceCheck) Check(key domain.FileKey, content string) []domain.Issue {
	var issues []domain.Issue
	add := func(msg, literal string) {
		issues = append(issues, domain.Issue{
			Category: domain.CategoryHTML,
			File:     key,
			Message:  msg,
			Literal:  literal,
		})
	}

	content = commentPattern.ReplaceAllString(content, "")

	var stack []string
	for _, m := range tagPattern.FindAllStringSubmatch(content, -1) {
		closing := m[1] == "/"
		name := strings.ToLower(m[2])
		if voidTags[name] {
			continue
		}
		if !closing {
			if strings.HasSuffix(strings.TrimSpace(m[3]), "/") {
				continue
			}
			stack = append(stack, name)
			continue
		}

		switch {
		case len(stack) == 0:
			add(fmt.Sprintf("Unexpected closing tag </%s> with no matching open tag.", name), "</"+name+">")
		case stack[len(stack)-1] == name:
			stack = stack[:len(stack)-1]
		default:
			add(fmt.Sprintf("Mismatched tag: expected </%s> but found </%s>.", stack[len(stack)-1], name), "</"+name+">")
			for len(stack) > 0 && stack[len(stack)-1] != name {
				unclosed := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				add(fmt.Sprintf("Unclosed <%s> tag.", unclosed), "<"+unclosed+">")
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		add(fmt.Sprintf("Unclosed <%s> tag.", stack[i]), "<"+stack[i]+">")
	}
	return issues
}

// FormatCheck flags leftover markdown fences in any file.
type FormatCheck struct{}

func NewFormatCheck() *FormatCheck { return &FormatCheck{} }

func (c *FormatCheck) Name() string { return "format" }

func (c *FormatCheck) AppliesTo(domain.FileKey) bool { return true }

func (c *FormatCheck) Check(key domain.FileKey, content string) []domain.Issue {
	if !strings.Contains(content, "```") {
		return nil
	}
	return []domain.Issue{{
		Category: domain.CategoryFormat,
		File:     key,
		Message:  fmt.Sprintf("Markdown fences detected in .%s file.", key),
		Literal:  "```",
	}}
}
