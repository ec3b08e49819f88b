package domain

import (
	"fmt"
	"strings"
	"time"
)

// FileKey names one of the three logical files of a generated component.
type FileKey string

const (
	Markup FileKey = "html"
	Styles FileKey = "css"
	Logic  FileKey = "ts"
)

// FileKeys is the fixed, stable order in which files are checked and reported.
var FileKeys = []FileKey{Markup, Styles, Logic}

// FileName returns the generic artifact name used in messages, e.g. "component.ts".
func (k FileKey) FileName() string {
	return "component." + string(k)
}

// FileSet is the parsed three-file artifact. Every key is always present;
// missing content is the empty string. Treat values as read-only after creation.
type FileSet struct {
	Markup string `json:"html"`
	Styles string `json:"css"`
	Logic  string `json:"ts"`
}

// Get returns the content for the given key.
func (f FileSet) Get(key FileKey) string {
	switch key {
	case Markup:
		return f.Markup
	case Styles:
		return f.Styles
	case Logic:
		return f.Logic
	default:
		return ""
	}
}

// With returns a copy of the set with one file replaced.
func (f FileSet) With(key FileKey, content string) FileSet {
	switch key {
	case Markup:
		f.Markup = content
	case Styles:
		f.Styles = content
	case Logic:
		f.Logic = content
	}
	return f
}

// Category is the stable taxonomy tag carried by every Issue.
type Category string

const (
	CategoryParse       Category = "PARSE"
	CategorySyntax      Category = "SYNTAX"
	CategoryFormat      Category = "FORMAT"
	CategoryHTML        Category = "HTML"
	CategoryDesignToken Category = "DESIGN_TOKEN"
)

// Issue is a single validation failure. Issues are values and are never deduplicated.
type Issue struct {
	Category Category `json:"category"`
	File     FileKey  `json:"file,omitempty"`
	Message  string   `json:"message"`
	Token    string   `json:"token,omitempty"`    // design token name (DESIGN_TOKEN only)
	Expected string   `json:"expected,omitempty"` // expected token value or allowed set
	Literal  string   `json:"literal,omitempty"`  // offending literal, e.g. a hex color or bracket pair
	Position int      `json:"position,omitempty"` // 1-based byte offset, 0 when not applicable
}

// String renders the issue with its taxonomy prefix. Design token issues carry a
// structured block so the repair prompt sees the token and its expected value.
func (i Issue) String() string {
	s := fmt.Sprintf("[%s] %s", i.Category, i.Message)
	if i.Category == CategoryDesignToken && i.Token != "" {
		s += fmt.Sprintf("\n  TOKEN: %s\n  EXPECTED: %s", i.Token, i.Expected)
	}
	return s
}

// Verdict is the result of one validation pass.
type Verdict struct {
	Markup []Issue `json:"html"`
	Styles []Issue `json:"css"`
	Logic  []Issue `json:"ts"`
	Design []Issue `json:"design"`
}

// Issues concatenates every issue in the order markup, styles, logic, design.
func (v Verdict) Issues() []Issue {
	all := make([]Issue, 0, len(v.Markup)+len(v.Styles)+len(v.Logic)+len(v.Design))
	all = append(all, v.Markup...)
	all = append(all, v.Styles...)
	all = append(all, v.Logic...)
	all = append(all, v.Design...)
	return all
}

// HasErrors reports whether the pass produced any issue at all.
func (v Verdict) HasErrors() bool {
	return len(v.Markup)+len(v.Styles)+len(v.Logic)+len(v.Design) > 0
}

// Strings renders every issue, in order, for the repair prompt.
func (v Verdict) Strings() []string {
	issues := v.Issues()
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.String()
	}
	return out
}

// State is a node of the retry state machine.
type State string

const (
	StateGenerated  State = "GENERATED"
	StateValidated1 State = "VALIDATED_1"
	StateFixed      State = "FIXED"
	StateValidated2 State = "VALIDATED_2"
	StateAccepted   State = "ACCEPTED"
	StateRejected   State = "REJECTED"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateRejected
}

// Phase distinguishes the first generation pass from the repair pass.
type Phase string

const (
	PhaseGenerate Phase = "generate"
	PhaseFix      Phase = "fix"
)

// AttemptRecord is one audit-trail entry, appended once per pass.
type AttemptRecord struct {
	Ordinal int      `json:"attempt"`
	Phase   Phase    `json:"phase"`
	Files   FileSet  `json:"files"`
	Verdict Verdict  `json:"verdict"`
	Passed  bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Result is the terminal, read-only report of one pipeline run.
type Result struct {
	RunID       string             `json:"run_id"`
	Prompt      string             `json:"prompt"`
	Files       FileSet            `json:"code"`
	Valid       bool               `json:"is_valid"`
	State       State              `json:"state"`
	Attempts    int                `json:"attempts"`
	Errors      []Issue            `json:"errors"`
	Log         []AttemptRecord    `json:"attempt_log"`
	Transitions []State            `json:"transitions"`
	Warnings    []string           `json:"injection_warnings"`
	SavedPaths  map[FileKey]string `json:"saved_paths"`
	Slug        string             `json:"kebab_name"`
	ClassName   string             `json:"class_name"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
}

// ErrorStrings renders the remaining errors with their taxonomy prefixes.
func (r *Result) ErrorStrings() []string {
	out := make([]string, len(r.Errors))
	for i, issue := range r.Errors {
		out[i] = issue.String()
	}
	return out
}

// Summary is a one-line description of the outcome.
func (r *Result) Summary() string {
	if r.Valid {
		return fmt.Sprintf("%s accepted after %d attempt(s)", r.ClassName, r.Attempts)
	}
	cats := make([]string, 0, len(r.Errors))
	seen := make(map[Category]bool)
	for _, e := range r.Errors {
		if !seen[e.Category] {
			seen[e.Category] = true
			cats = append(cats, string(e.Category))
		}
	}
	return fmt.Sprintf("%s rejected after %d attempt(s): %d error(s) [%s]",
		r.ClassName, r.Attempts, len(r.Errors), strings.Join(cats, ", "))
}
