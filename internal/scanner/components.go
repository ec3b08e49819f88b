package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frherrer/component-architect/internal/domain"
)

// Component is one {stem}.component.{ts,html,css} group found on disk.
// Paths only holds the files that exist.
type Component struct {
	Dir   string
	Stem  string
	Paths map[domain.FileKey]string
}

// Name returns the component's path without the extension, e.g. "src/app/login.component".
func (c Component) Name() string {
	return filepath.Join(c.Dir, c.Stem+".component")
}

// Components groups the component files under rootDir by directory and stem.
func (s *FileScanner) Components(rootDir string, excludes []string) ([]Component, error) {
	files, err := s.Scan(rootDir, ComponentPatterns, excludes)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Component)
	for _, path := range files {
		base := filepath.Base(path)
		ext := strings.TrimPrefix(filepath.Ext(base), ".")
		stem := strings.TrimSuffix(base, ".component."+ext)

		c := Component{Dir: filepath.Dir(path), Stem: stem}
		existing, ok := byName[c.Name()]
		if !ok {
			c.Paths = make(map[domain.FileKey]string, 3)
			existing = &c
			byName[c.Name()] = existing
		}
		existing.Paths[domain.FileKey(ext)] = path
	}

	out := make([]Component, 0, len(byName))
	for _, c := range byName {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// Load reads the component's files. Missing files load as empty content so
// the presence check reports them.
func (c Component) Load() (domain.FileSet, error) {
	var files domain.FileSet
	for _, key := range domain.FileKeys {
		path, ok := c.Paths[key]
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.FileSet{}, domain.NewError("lint", path, 0, "failed to read component file", err)
		}
		files = files.With(key, string(data))
	}
	return files, nil
}

// LogicExcerpt returns up to limit characters of the first component logic
// file in dir. It returns an empty string when dir holds none.
func LogicExcerpt(dir string, limit int) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.component.ts"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)

	data, err := os.ReadFile(matches[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", domain.NewError("scan", matches[0], 0, "failed to read component", err)
	}

	runes := []rune(string(data))
	if limit > 0 && len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes), nil
}
