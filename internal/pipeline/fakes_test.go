package pipeline_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/frherrer/component-architect/internal/domain"
	"github.com/frherrer/component-architect/internal/pipeline"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func readRaw(name string) string {
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "raw", name))
	Expect(err).ToNot(HaveOccurred())
	return string(data)
}

// scriptedModel returns canned outputs and records what it was asked.
type scriptedModel struct {
	generateOut string
	repairOut   string
	generateErr error
	repairErr   error

	generateCalls []pipeline.GenerateRequest
	repairCalls   []pipeline.RepairRequest
}

func (m *scriptedModel) Generate(_ context.Context, req pipeline.GenerateRequest) (string, error) {
	m.generateCalls = append(m.generateCalls, req)
	return m.generateOut, m.generateErr
}

func (m *scriptedModel) Repair(_ context.Context, req pipeline.RepairRequest) (string, error) {
	m.repairCalls = append(m.repairCalls, req)
	return m.repairOut, m.repairErr
}

type fakePersister struct {
	writes []domain.FileSet
	err    error
}

func (p *fakePersister) Write(files domain.FileSet, slug string) (map[domain.FileKey]string, error) {
	p.writes = append(p.writes, files)
	if p.err != nil {
		return nil, p.err
	}
	return map[domain.FileKey]string{
		domain.Logic:  slug + ".component.ts",
		domain.Markup: slug + ".component.html",
		domain.Styles: slug + ".component.css",
	}, nil
}

type fakeRecorder struct {
	results []*domain.Result
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, res *domain.Result) error {
	r.results = append(r.results, res)
	return r.err
}

type fakeSanitizer struct{}

func (fakeSanitizer) Sanitize(in string) (string, []string) {
	return "sanitized " + in, []string{"warned"}
}

// fakeLLM implements llm.Model.
type fakeLLM struct {
	reply   string
	systems []string
	users   []string
}

func (f *fakeLLM) Complete(_ context.Context, system, user string) (string, error) {
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	if f.reply == "" {
		return "", errors.New("no reply scripted")
	}
	return f.reply, nil
}
