package domain

import "fmt"

// ArchitectError is the base error type with context.
type ArchitectError struct {
	Phase      string // "config", "tokens", "prompt", "generate", "repair", "write", "history", "scan", "lint"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *ArchitectError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *ArchitectError) Unwrap() error {
	return e.Cause
}

// NewError creates a new ArchitectError.
func NewError(phase, file string, line int, message string, cause error) *ArchitectError {
	return &ArchitectError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates an ArchitectError carrying a remediation hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *ArchitectError {
	e := NewError(phase, file, line, message, cause)
	e.Suggestion = suggestion
	return e
}
