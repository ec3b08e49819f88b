// Package prompt renders the system and user prompts sent to the model.
package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/frherrer/component-architect/internal/domain"
)

// Template names.
const (
	GeneratorSystem = "generator_system"
	GeneratorUser   = "generator_user"
	FixerSystem     = "fixer_system"
	FixerUser       = "fixer_user"
)

var requiredTemplates = []string{GeneratorSystem, GeneratorUser, FixerSystem, FixerUser}

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// GenerateData is passed to the generator templates.
type GenerateData struct {
	Prompt    string
	Tokens    map[string]string
	Markers   []string
	ClassName string
	Slug      string
	Selector  string
	Context   string // excerpt of an existing component, may be empty
}

// RepairData is passed to the fixer templates.
type RepairData struct {
	Files     domain.FileSet
	Errors    []string
	Tokens    map[string]string
	ClassName string
	Slug      string
	Selector  string
}

// Engine renders named prompt templates.
type Engine struct {
	templates   map[string]*template.Template
	templateDir string
}

// NewEngine loads the embedded templates, then overrides them with any .tmpl
// files found in templateDir. An empty templateDir uses the embedded set only.
func NewEngine(templateDir string) (*Engine, error) {
	engine := &Engine{
		templates:   make(map[string]*template.Template),
		templateDir: templateDir,
	}

	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, domain.NewError("prompt", "", 0, "failed to open embedded templates", err)
	}
	if err := engine.loadTemplates(sub, "embedded"); err != nil {
		return nil, err
	}

	if templateDir != "" {
		if _, err := os.Stat(templateDir); err != nil {
			return nil, domain.NewError("prompt", templateDir, 0, "failed to read template directory", err)
		}
		if err := engine.loadTemplates(os.DirFS(templateDir), templateDir); err != nil {
			return nil, err
		}
	}

	for _, name := range requiredTemplates {
		if _, ok := engine.templates[name]; !ok {
			return nil, domain.NewError("prompt", templateDir, 0, fmt.Sprintf("template %q not found", name), nil)
		}
	}

	return engine, nil
}

// loadTemplates reads all .tmpl files at the root of fsys.
func (e *Engine) loadTemplates(fsys fs.FS, origin string) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return domain.NewError("prompt", origin, 0, "failed to read template directory", err)
	}

	funcMap := CustomFuncMap()

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		path := filepath.Join(origin, entry.Name())
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return domain.NewError("prompt", path, 0, "failed to read template file", err)
		}

		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		tmpl, err := template.New(name).Funcs(funcMap).Option("missingkey=zero").Parse(string(content))
		if err != nil {
			return domain.NewError("prompt", path, 0, "failed to parse template", err)
		}

		e.templates[name] = tmpl
	}

	return nil
}

// Render executes the named template with data.
func (e *Engine) Render(name string, data any) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", domain.NewError("prompt", "", 0,
			fmt.Sprintf("template %q not found (available: %s)", name, strings.Join(e.ListTemplates(), ", ")), nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", domain.NewError("prompt", name, 0, "failed to execute template", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// Generate renders the system and user prompts for a first generation pass.
func (e *Engine) Generate(data GenerateData) (system, user string, err error) {
	if system, err = e.Render(GeneratorSystem, data); err != nil {
		return "", "", err
	}
	if user, err = e.Render(GeneratorUser, data); err != nil {
		return "", "", err
	}
	return system, user, nil
}

// Repair renders the system and user prompts for the repair pass.
func (e *Engine) Repair(data RepairData) (system, user string, err error) {
	if system, err = e.Render(FixerSystem, data); err != nil {
		return "", "", err
	}
	if user, err = e.Render(FixerUser, data); err != nil {
		return "", "", err
	}
	return system, user, nil
}

// ListTemplates returns the sorted names of all loaded templates.
func (e *Engine) ListTemplates() []string {
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
