// Package parsers turns source files into the declaration/reference stream
// consumed by the graph core. Each parser handles one language; the
// Dispatcher routes files to parsers by extension.
package parsers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"diagraph/internal/graph"
)

// Parser parses one language into the core's input contract.
type Parser interface {
	// ParseFile parses a single source file.
	ParseFile(ctx context.Context, path string) (*graph.FileParse, error)

	// Extensions returns the file extensions this parser handles,
	// with leading dot.
	Extensions() []string
}

// Dispatcher routes files to language parsers by extension. It implements
// graph.Parser.
type Dispatcher struct {
	byExt map[string]Parser
}

// NewDispatcher creates a dispatcher over the given parsers.
func NewDispatcher(parsers ...Parser) *Dispatcher {
	d := &Dispatcher{byExt: make(map[string]Parser)}
	for _, p := range parsers {
		for _, ext := range p.Extensions() {
			d.byExt[ext] = p
		}
	}
	return d
}

// ParseFile parses path with the parser registered for its extension.
func (d *Dispatcher) ParseFile(ctx context.Context, path string) (*graph.FileParse, error) {
	p, ok := d.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("no parser for %s", path)
	}
	return p.ParseFile(ctx, path)
}

// modulePath converts a file path into a dotted module path relative to
// rootDir: "analyzer/parser.py" becomes "analyzer.parser". A trailing
// __init__ component is dropped so packages resolve to their directory.
func modulePath(rootDir, path string) string {
	rel := path
	if rootDir != "" {
		if r, err := filepath.Rel(rootDir, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	rel = strings.TrimSuffix(rel, "/__init__")
	return strings.ReplaceAll(rel, "/", ".")
}

// relPath returns path relative to rootDir with forward slashes.
func relPath(rootDir, path string) string {
	rel := path
	if rootDir != "" {
		if r, err := filepath.Rel(rootDir, path); err == nil {
			rel = r
		}
	}
	return filepath.ToSlash(rel)
}
