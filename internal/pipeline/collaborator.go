package pipeline

import (
	"context"

	"github.com/frherrer/component-architect/internal/llm"
	"github.com/frherrer/component-architect/internal/prompt"
	"github.com/frherrer/component-architect/internal/sanitize"
)

// ModelCollaborator generates and repairs components by rendering prompt
// templates and calling a language model.
type ModelCollaborator struct {
	model   llm.Model
	engine  *prompt.Engine
	markers []string
}

// NewModelCollaborator creates a collaborator. markers are the metadata keys
// the generator is told to include in the decorator.
func NewModelCollaborator(model llm.Model, engine *prompt.Engine, markers []string) *ModelCollaborator {
	return &ModelCollaborator{
		model:   model,
		engine:  engine,
		markers: append([]string(nil), markers...),
	}
}

// Generate implements Generator.
func (c *ModelCollaborator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	system, user, err := c.engine.Generate(prompt.GenerateData{
		Prompt:    req.Prompt,
		Tokens:    req.Tokens.Entries(),
		Markers:   c.markers,
		ClassName: req.ClassName,
		Slug:      req.Slug,
		Selector:  sanitize.Selector(req.Slug),
		Context:   req.Context,
	})
	if err != nil {
		return "", err
	}
	return c.model.Complete(ctx, system, user)
}

// Repair implements Repairer.
func (c *ModelCollaborator) Repair(ctx context.Context, req RepairRequest) (string, error) {
	system, user, err := c.engine.Repair(prompt.RepairData{
		Files:     req.Files,
		Errors:    req.Errors,
		Tokens:    req.Tokens.Entries(),
		ClassName: req.ClassName,
		Slug:      req.Slug,
		Selector:  sanitize.Selector(req.Slug),
	})
	if err != nil {
		return "", err
	}
	return c.model.Complete(ctx, system, user)
}
