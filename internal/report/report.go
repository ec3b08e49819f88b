// Package report renders a pipeline run as Markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/frherrer/component-architect/internal/domain"
)

var fenceLang = map[domain.FileKey]string{
	domain.Logic:  "typescript",
	domain.Markup: "html",
	domain.Styles: "css",
}

// Markdown renders the run as a Markdown document.
func Markdown(res *domain.Result) string {
	var b strings.Builder

	status := "REJECTED"
	if res.Valid {
		status = "ACCEPTED"
	}
	fmt.Fprintf(&b, "# %s\n\n", res.ClassName)
	fmt.Fprintf(&b, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Run | `%s` |\n", res.RunID)
	fmt.Fprintf(&b, "| Prompt | %s |\n", escapeCell(res.Prompt))
	fmt.Fprintf(&b, "| Status | **%s** |\n", status)
	fmt.Fprintf(&b, "| Attempts | %d |\n", res.Attempts)
	fmt.Fprintf(&b, "| Selector | `app-%s` |\n", res.Slug)
	if !res.StartedAt.IsZero() && !res.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "| Duration | %s |\n", res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
	}
	if len(res.Transitions) > 0 {
		states := make([]string, len(res.Transitions))
		for i, s := range res.Transitions {
			states[i] = string(s)
		}
		fmt.Fprintf(&b, "| Transitions | %s |\n", strings.Join(states, " → "))
	}
	b.WriteString("\n")

	if len(res.Warnings) > 0 {
		b.WriteString("## Sanitization warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Attempts\n\n")
	for _, a := range res.Log {
		result := "failed"
		if a.Passed {
			result = "passed"
		}
		fmt.Fprintf(&b, "### Attempt %d (%s): %s\n\n", a.Ordinal, a.Phase, result)
		if len(a.Errors) == 0 {
			b.WriteString("No errors.\n\n")
			continue
		}
		for _, e := range a.Errors {
			lines := strings.Split(e, "\n")
			fmt.Fprintf(&b, "- %s\n", lines[0])
			for _, l := range lines[1:] {
				fmt.Fprintf(&b, "  - `%s`\n", strings.TrimSpace(l))
			}
		}
		b.WriteString("\n")
	}

	if len(res.SavedPaths) > 0 {
		b.WriteString("## Saved files\n\n")
		for _, key := range domain.FileKeys {
			if p, ok := res.SavedPaths[key]; ok {
				fmt.Fprintf(&b, "- `%s`\n", p)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Files\n\n")
	for _, key := range []domain.FileKey{domain.Logic, domain.Markup, domain.Styles} {
		fmt.Fprintf(&b, "### %s\n\n```%s\n%s\n```\n\n", key.FileName(), fenceLang[key], res.Files.Get(key))
	}

	return b.String()
}

// HTML renders the Markdown report to a standalone HTML page.
func HTML(res *domain.Result) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(res)), &body); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s report</title>\n", res.ClassName)
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// WriteFile renders the report in the format implied by the path's extension
// (.html/.htm for HTML, anything else Markdown) and writes it.
func WriteFile(path string, res *domain.Result) error {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		out, err := HTML(res)
		if err != nil {
			return domain.NewError("write", path, 0, "failed to render report", err)
		}
		content = out
	default:
		content = Markdown(res)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.NewError("write", dir, 0, "failed to create report directory", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return domain.NewError("write", path, 0, "failed to write report", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
