package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/frherrer/component-architect/internal/domain"
)

// ComponentPatterns match the files that make up a component.
var ComponentPatterns = []string{"**/*.component.ts", "**/*.component.html", "**/*.component.css"}

// Scanner discovers files in a project tree.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner using filepath.WalkDir.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan walks rootDir and returns sorted file paths matching any of the given
// glob patterns while excluding paths that match any exclude pattern.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	for _, p := range append(append([]string(nil), patterns...), excludes...) {
		if !doublestar.ValidatePattern(p) {
			return nil, domain.NewError("scan", rootDir, 0, "invalid glob pattern "+p, nil)
		}
	}

	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Get path relative to rootDir for pattern matching
		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive {
				return filepath.SkipDir
			}
			for _, exc := range excludes {
				if matchGlob(relPath, exc) || matchGlob(relPath+"/", exc) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		for _, exc := range excludes {
			if matchGlob(relPath, exc) {
				return nil
			}
		}

		for _, pattern := range patterns {
			if matchGlob(relPath, pattern) {
				files = append(files, path)
				return nil
			}
		}

		return nil
	})

	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

// matchGlob matches a slash-separated relative path against a doublestar
// pattern. Patterns without a slash also match the base name.
func matchGlob(path, pattern string) bool {
	if matched, _ := doublestar.Match(pattern, path); matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		matched, _ := doublestar.Match(pattern, filepath.Base(path))
		return matched
	}
	// "**/x" should also match "x" at the root.
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		matched, _ := doublestar.Match(rest, path)
		return matched
	}
	return false
}
