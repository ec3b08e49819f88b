package checks

import (
	"slices"

	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/domain"
)

// Validator runs a Registry of checkers over a file set.
type Validator struct {
	registry *Registry
}

// NewValidator creates a Validator over the given registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// NewDefaultValidator creates a Validator with the standard checkers.
func NewDefaultValidator(rules config.ValidationConfig) *Validator {
	return NewValidator(DefaultRegistry(rules))
}

// Registry returns the checker registry backing this validator.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// Validate runs every file checker over markup, styles and logic, then every
// set checker into the design bucket.
func (v *Validator) Validate(files domain.FileSet, tokens config.Tokens) domain.Verdict {
	perFile := make(map[domain.FileKey][]domain.Issue, len(domain.FileKeys))
	for _, key := range domain.FileKeys {
		content := files.Get(key)
		for _, c := range v.registry.FileCheckers() {
			if c.AppliesTo(key) {
				perFile[key] = append(perFile[key], c.Check(key, content)...)
			}
		}
	}

	verdict := Aggregate(perFile)
	for _, c := range v.registry.SetCheckers() {
		verdict.Design = append(verdict.Design, c.Check(files, tokens)...)
	}
	return verdict
}

// Aggregate builds a verdict from per-file issue lists. Issues keyed by an
// unknown file land in the design bucket.
func Aggregate(perFile map[domain.FileKey][]domain.Issue) domain.Verdict {
	var verdict domain.Verdict
	for key, issues := range perFile {
		switch key {
		case domain.Markup:
			verdict.Markup = append(verdict.Markup, issues...)
		case domain.Styles:
			verdict.Styles = append(verdict.Styles, issues...)
		case domain.Logic:
			verdict.Logic = append(verdict.Logic, issues...)
		}
	}
	var extra []domain.FileKey
	for key := range perFile {
		if key != domain.Markup && key != domain.Styles && key != domain.Logic {
			extra = append(extra, key)
		}
	}
	slices.Sort(extra)
	for _, key := range extra {
		verdict.Design = append(verdict.Design, perFile[key]...)
	}
	return verdict
}
