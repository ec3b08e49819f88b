// Package checks implements the structural and design-token checkers that
// decide whether a generated component is acceptable.
//
// Checkers never fail: every problem is reported as a domain.Issue, and a
// checker given the same input always returns the same issues.
package checks

import (
	"sync"

	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/domain"
)

// FileChecker inspects a single logical file.
type FileChecker interface {
	Name() string
	AppliesTo(key domain.FileKey) bool
	Check(key domain.FileKey, content string) []domain.Issue
}

// SetChecker inspects the whole file set against the design tokens.
type SetChecker interface {
	Name() string
	Check(files domain.FileSet, tokens config.Tokens) []domain.Issue
}

// Registry holds checkers in registration order, which is also report order.
type Registry struct {
	mu    sync.RWMutex
	files []FileChecker
	sets  []SetChecker
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterFile appends a file checker.
func (r *Registry) RegisterFile(c FileChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, c)
}

// RegisterSet appends a set checker.
func (r *Registry) RegisterSet(c SetChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = append(r.sets, c)
}

// FileCheckers returns a snapshot of the registered file checkers.
func (r *Registry) FileCheckers() []FileChecker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]FileChecker(nil), r.files...)
}

// SetCheckers returns a snapshot of the registered set checkers.
func (r *Registry) SetCheckers() []SetChecker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SetChecker(nil), r.sets...)
}

// Names lists every registered checker, file checkers first.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.files)+len(r.sets))
	for _, c := range r.files {
		names = append(names, c.Name())
	}
	for _, c := range r.sets {
		names = append(names, c.Name())
	}
	return names
}

// DefaultRegistry returns the standard checker set configured from the validation rules.
func DefaultRegistry(rules config.ValidationConfig) *Registry {
	r := NewRegistry()
	r.RegisterFile(NewComponentCheck(rules.RequiredMarkers))
	r.RegisterFile(NewDelimiterCheck())
	r.RegisterFile(NewTagBalanceCheck())
	r.RegisterFile(NewFormatCheck())
	r.RegisterSet(NewTokenPresenceCheck(rules.RequiredTokens))
	r.RegisterSet(NewColorPolicyCheck())
	return r
}
