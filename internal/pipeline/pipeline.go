// Package pipeline drives a component request through generation, validation
// and at most one repair pass.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/frherrer/component-architect/internal/checks"
	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/domain"
	"github.com/frherrer/component-architect/internal/parser"
	"github.com/frherrer/component-architect/internal/sanitize"
)

// GenerateRequest is everything the generation collaborator needs.
type GenerateRequest struct {
	Prompt    string
	Tokens    config.Tokens
	ClassName string
	Slug      string
	Context   string
}

// RepairRequest is everything the repair collaborator needs.
type RepairRequest struct {
	Files     domain.FileSet
	Errors    []string
	Tokens    config.Tokens
	ClassName string
	Slug      string
}

// Generator produces raw sectioned output for a request.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Repairer produces corrected raw output from a failed file set.
type Repairer interface {
	Repair(ctx context.Context, req RepairRequest) (string, error)
}

// Sanitizer cleans the user prompt and reports what it removed.
type Sanitizer interface {
	Sanitize(input string) (string, []string)
}

// Persister writes a file set and returns the written paths.
type Persister interface {
	Write(files domain.FileSet, slug string) (map[domain.FileKey]string, error)
}

// Recorder stores finished runs.
type Recorder interface {
	Record(ctx context.Context, result *domain.Result) error
}

// Request is one pipeline invocation.
type Request struct {
	Prompt  string
	Context string // optional excerpt of an existing component to extend
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSanitizer sets the prompt sanitizer. Without one the prompt is only trimmed.
func WithSanitizer(s Sanitizer) Option { return func(p *Pipeline) { p.sanitizer = s } }

// WithPersister sets where accepted and audited components are written.
func WithPersister(w Persister) Option { return func(p *Pipeline) { p.persister = w } }

// WithRecorder sets the run history store.
func WithRecorder(r Recorder) Option { return func(p *Pipeline) { p.recorder = r } }

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// Pipeline is the retry state machine. It holds no per-run state and may be
// shared by concurrent runs as long as its collaborators allow it.
type Pipeline struct {
	generator Generator
	repairer  Repairer
	validator *checks.Validator
	tokens    config.Tokens
	sanitizer Sanitizer
	persister Persister
	recorder  Recorder
	log       *logrus.Logger
	now       func() time.Time
}

// New creates a Pipeline. A nil log uses the logrus standard logger.
func New(
	g Generator,
	r Repairer,
	v *checks.Validator,
	tokens config.Tokens,
	log *logrus.Logger,
	opts ...Option,
) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &Pipeline{
		generator: g,
		repairer:  r,
		validator: v,
		tokens:    tokens,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline for a user prompt.
func (p *Pipeline) Run(ctx context.Context, userPrompt string) (*domain.Result, error) {
	return p.Execute(ctx, Request{Prompt: userPrompt})
}

// run carries the mutable state of one execution.
type run struct {
	result *domain.Result
	log    *logrus.Entry
}

func (r *run) transition(s domain.State) {
	r.result.State = s
	r.result.Transitions = append(r.result.Transitions, s)
	r.log.WithField("state", s).Debug("State transition")
}

func (r *run) record(phase domain.Phase, files domain.FileSet, verdict domain.Verdict) {
	r.result.Log = append(r.result.Log, domain.AttemptRecord{
		Ordinal: len(r.result.Log) + 1,
		Phase:   phase,
		Files:   files,
		Verdict: verdict,
		Passed:  !verdict.HasErrors(),
		Errors:  verdict.Strings(),
	})
	r.result.Attempts = len(r.result.Log)
	r.result.Files = files
	r.result.Errors = verdict.Issues()
}

// Execute runs GENERATED → VALIDATED_1 → [FIXED → VALIDATED_2] → ACCEPTED | REJECTED.
// Collaborator failures abort the run and are returned without a Result.
func (p *Pipeline) Execute(ctx context.Context, req Request) (*domain.Result, error) {
	prompt, warnings := p.sanitize(req.Prompt)
	slug := sanitize.Slug(prompt)
	className := sanitize.ClassName(slug)

	res := &domain.Result{
		RunID:     uuid.NewString(),
		Prompt:    prompt,
		Warnings:  warnings,
		Slug:      slug,
		ClassName: className,
		StartedAt: p.now(),
	}
	r := &run{
		result: res,
		log:    p.log.WithFields(logrus.Fields{"run_id": res.RunID, "component": className}),
	}
	for _, w := range warnings {
		r.log.Warn(w)
	}

	raw, err := p.generator.Generate(ctx, GenerateRequest{
		Prompt:    prompt,
		Tokens:    p.tokens,
		ClassName: className,
		Slug:      slug,
		Context:   req.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	r.transition(domain.StateGenerated)

	files, verdict, parsed := p.evaluate(raw)
	r.record(domain.PhaseGenerate, files, verdict)
	if !parsed {
		r.log.WithField("errors", len(res.Errors)).Warn("Generated output is missing sections; not repairing")
		r.transition(domain.StateRejected)
		return p.finish(ctx, r, false), nil
	}
	r.transition(domain.StateValidated1)

	if !verdict.HasErrors() {
		r.transition(domain.StateAccepted)
		return p.finish(ctx, r, true), nil
	}

	r.log.WithFields(logrus.Fields{"attempt": 1, "errors": len(res.Errors)}).Info("Validation failed; requesting repair")
	raw, err = p.repairer.Repair(ctx, RepairRequest{
		Files:     files,
		Errors:    verdict.Strings(),
		Tokens:    p.tokens,
		ClassName: className,
		Slug:      slug,
	})
	if err != nil {
		return nil, fmt.Errorf("repair: %w", err)
	}
	r.transition(domain.StateFixed)

	files, verdict, parsed = p.evaluate(raw)
	r.record(domain.PhaseFix, files, verdict)
	if !parsed {
		r.log.WithField("errors", len(res.Errors)).Warn("Repaired output is missing sections")
		r.transition(domain.StateRejected)
		return p.finish(ctx, r, false), nil
	}
	r.transition(domain.StateValidated2)

	if verdict.HasErrors() {
		r.transition(domain.StateRejected)
	} else {
		r.transition(domain.StateAccepted)
	}
	return p.finish(ctx, r, true), nil
}

func (p *Pipeline) sanitize(input string) (string, []string) {
	if p.sanitizer == nil {
		return strings.TrimSpace(input), nil
	}
	return p.sanitizer.Sanitize(input)
}

// evaluate splits raw output and validates it. parsed is false when the
// presence gate failed, in which case the verdict holds only PARSE issues.
func (p *Pipeline) evaluate(raw string) (domain.FileSet, domain.Verdict, bool) {
	files := parser.Split(raw)
	if missing := checks.CheckPresence(files); len(missing) > 0 {
		perFile := make(map[domain.FileKey][]domain.Issue, len(missing))
		for _, issue := range missing {
			perFile[issue.File] = append(perFile[issue.File], issue)
		}
		return files, checks.Aggregate(perFile), false
	}
	return files, p.validator.Validate(files, p.tokens), true
}

// finish persists and records the run. persist is false when the file set is incomplete.
func (p *Pipeline) finish(ctx context.Context, r *run, persist bool) *domain.Result {
	res := r.result
	if !res.State.Terminal() {
		panic(fmt.Sprintf("pipeline: finishing run in non-terminal state %s", res.State))
	}
	res.Valid = res.State == domain.StateAccepted

	if persist && p.persister != nil {
		paths, err := p.persister.Write(res.Files, res.Slug)
		if err != nil {
			r.log.WithError(err).Error("Failed to write component files")
		}
		res.SavedPaths = paths
	}

	res.FinishedAt = p.now()

	if p.recorder != nil {
		if err := p.recorder.Record(ctx, res); err != nil {
			r.log.WithError(err).Warn("Failed to record run history")
		}
	}

	r.log.WithFields(logrus.Fields{
		"state":    res.State,
		"attempts": res.Attempts,
		"errors":   len(res.Errors),
	}).Info(res.Summary())
	return res
}
