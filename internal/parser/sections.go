package parser

import (
	"regexp"
	"strings"

	"github.com/frherrer/component-architect/internal/domain"
)

var (
	headerPattern = regexp.MustCompile(`(?i)^\s*===\s*(?:[\w.-]+\.)?component\.(ts|html|css)\s*===\s*$`)
	fencePattern  = regexp.MustCompile("^\\s*```[A-Za-z0-9_+-]*\\s*$")
)

// Split divides raw model output into the three logical files. Text before the
// first recognized header is discarded. Sections that never appear are left
// empty; when a header repeats, the last occurrence wins.
func Split(raw string) domain.FileSet {
	var files domain.FileSet

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var (
		current domain.FileKey
		body    []string
	)
	flush := func() {
		if current == "" {
			return
		}
		files = files.With(current, StripFences(strings.Join(body, "\n")))
	}

	for _, line := range lines {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = domain.FileKey(strings.ToLower(m[1]))
			body = body[:0]
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()

	return files
}

// StripFences trims the content and removes one leading fence line and one
// trailing fence, whether on its own line or at the end of the last line.
// Fences elsewhere are kept.
func StripFences(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	lines := strings.Split(content, "\n")
	if fencePattern.MatchString(lines[0]) {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 {
		last := strings.TrimRight(lines[n-1], " \t")
		switch {
		case strings.TrimSpace(last) == "```":
			lines = lines[:n-1]
		case strings.HasSuffix(last, "```"):
			// Closing fence glued to the last code line.
			lines[n-1] = strings.TrimSuffix(last, "```")
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
