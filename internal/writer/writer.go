// Package writer saves component file sets to disk.
package writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/component-architect/internal/domain"
)

// Writer writes {slug}.component.{ts,html,css} into one directory.
type Writer struct {
	dir    string
	dryRun bool
	log    *logrus.Logger
}

// New creates a Writer. In dry-run mode nothing touches the filesystem.
func New(dir string, dryRun bool, log *logrus.Logger) *Writer {
	return &Writer{dir: dir, dryRun: dryRun, log: log}
}

// FileName builds the on-disk name for one logical file, e.g. "login-form.component.ts".
func FileName(slug string, key domain.FileKey) string {
	return fmt.Sprintf("%s.component.%s", slug, key)
}

// Paths returns the paths Write would use for slug.
func (w *Writer) Paths(slug string) map[domain.FileKey]string {
	paths := make(map[domain.FileKey]string, len(domain.FileKeys))
	for _, key := range domain.FileKeys {
		paths[key] = filepath.Join(w.dir, FileName(slug, key))
	}
	return paths
}

// Write saves the three files and returns their paths. On failure the paths
// written so far are returned with the error.
func (w *Writer) Write(files domain.FileSet, slug string) (map[domain.FileKey]string, error) {
	paths := w.Paths(slug)

	if w.dryRun {
		for _, key := range domain.FileKeys {
			w.log.Infof("[DRY-RUN] Would write: %s", paths[key])
			w.log.Debugf("[DRY-RUN] Content:\n%s", files.Get(key))
		}
		return paths, nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, domain.NewErrorWithSuggestion("write", w.dir, 0,
			"failed to create output directory",
			"check that the parent directory exists and has write permissions",
			err)
	}

	written := make(map[domain.FileKey]string, len(paths))
	for _, key := range domain.FileKeys {
		path := paths[key]
		w.log.Infof("Writing: %s", path)
		if err := os.WriteFile(path, []byte(files.Get(key)), 0644); err != nil {
			return written, domain.NewErrorWithSuggestion("write", path, 0,
				"failed to write output file",
				"check disk space and write permissions for the output directory",
				err)
		}
		written[key] = path
	}
	return written, nil
}
