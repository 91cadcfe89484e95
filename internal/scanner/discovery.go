// Package scanner discovers source files under a root directory, honoring
// include and ignore glob patterns.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and its compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery walks a directory tree and returns the files matching the
// include patterns, minus anything matching an ignore pattern. Results are
// sorted so downstream output does not depend on walk order.
type FileDiscovery struct {
	rootDir string
	include []compiledPattern
	ignore  []compiledPattern
}

// NewFileDiscovery compiles the given glob patterns. Patterns match
// root-relative, slash-separated paths, e.g. "**/*.py" or "vendor/**".
func NewFileDiscovery(rootDir string, includePatterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{rootDir: rootDir}

	for _, pattern := range includePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		fd.include = append(fd.include, compiledPattern{pattern: pattern, glob: g})
	}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		fd.ignore = append(fd.ignore, compiledPattern{pattern: pattern, glob: g})
	}

	return fd, nil
}

// Discover walks the root directory and returns matching file paths in
// ascending order.
func (fd *FileDiscovery) Discover() ([]string, error) {
	files := []string{}

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if fd.matchesAny(relPath, fd.ignore) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.matchesAny(relPath, fd.ignore) {
			return nil
		}
		if fd.matchesAny(relPath, fd.include) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (fd *FileDiscovery) matchesAny(relPath string, patterns []compiledPattern) bool {
	for _, p := range patterns {
		if p.glob.Match(relPath) {
			return true
		}
	}
	return false
}
