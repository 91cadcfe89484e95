package graph

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"
)

// Parser turns one source file into declarations and raw references.
// Implementations live outside the core; the core never reads source text.
type Parser interface {
	ParseFile(ctx context.Context, path string) (*FileParse, error)
}

// ProgressReporter reports progress during a scan.
type ProgressReporter interface {
	OnScanStart(totalFiles int)
	OnFileParsed(processed, total int, fileName string)
	OnScanComplete(entityCount, edgeCount int, duration time.Duration)
}

// Result is a completed build: the relationship graph, its registry, and
// every non-fatal diagnostic collected along the way in occurrence order.
type Result struct {
	Graph       *Graph
	Registry    *Registry
	Diagnostics []Diagnostic
}

// Builder assembles the relationship graph in two phases. Phase 1 parses
// every file and registers all declarations; only then does phase 2 resolve
// references, so resolution never races against an incomplete registry. A
// file that fails to parse is skipped with a diagnostic; a single malformed
// file must not block analysis of the rest of the codebase.
type Builder struct {
	parser   Parser
	ignore   []string
	progress ProgressReporter
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithProgress configures progress reporting.
func WithProgress(p ProgressReporter) BuilderOption {
	return func(b *Builder) {
		b.progress = p
	}
}

// WithIgnorePatterns sets the dotted-path patterns whose matches are marked
// external.
func WithIgnorePatterns(patterns ...string) BuilderOption {
	return func(b *Builder) {
		b.ignore = patterns
	}
}

// NewBuilder creates a builder that parses files with parser.
func NewBuilder(parser Parser, opts ...BuilderOption) *Builder {
	b := &Builder{parser: parser}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build scans the given files and returns the populated graph. Only invalid
// ignore patterns or context cancellation produce an error; everything else
// is a diagnostic on the result.
func (b *Builder) Build(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()

	registry, err := NewRegistry(b.ignore)
	if err != nil {
		return nil, err
	}

	if b.progress != nil {
		b.progress.OnScanStart(len(files))
	}

	// Phase 1: parse everything, register all declarations.
	var parses []*FileParse
	var diags []Diagnostic
	processed := 0
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		fp, err := b.parser.ParseFile(ctx, file)
		processed++
		if err != nil {
			log.Printf("warning: failed to parse %s: %v", file, err)
			diags = append(diags, Diagnostic{
				Kind:    DiagParseFailure,
				Message: fmt.Sprintf("failed to parse %s: %v", file, err),
				File:    file,
			})
			if b.progress != nil {
				b.progress.OnFileParsed(processed, len(files), filepath.Base(file))
			}
			continue
		}

		for _, d := range fp.Declarations {
			registry.Register(d)
		}
		parses = append(parses, fp)
		if b.progress != nil {
			b.progress.OnFileParsed(processed, len(files), filepath.Base(file))
		}
	}

	// Phase 2: resolve references against the complete registry.
	resolver := NewResolver(registry)
	g := NewGraph(registry)
	for _, fp := range parses {
		for _, ref := range fp.References {
			src, ok := registry.Lookup(ref.From)
			if !ok {
				diags = append(diags, Diagnostic{
					Kind:    DiagDangling,
					Message: fmt.Sprintf("reference from unregistered entity %q", ref.From),
					File:    ref.File,
					Line:    ref.Line,
				})
				continue
			}
			target, ok := resolver.Resolve(ref, fp)
			if !ok {
				continue
			}
			if err := g.AddEdge(src.QualifiedName, target.QualifiedName, ref.Kind); err != nil {
				return nil, fmt.Errorf("add edge %s -> %s: %w", src.QualifiedName, target.QualifiedName, err)
			}
		}
	}

	diags = append(diags, registry.Diagnostics()...)
	diags = append(diags, resolver.Diagnostics()...)

	if b.progress != nil {
		b.progress.OnScanComplete(len(registry.All()), g.EdgeCount(), time.Since(start))
	}

	return &Result{Graph: g, Registry: registry, Diagnostics: diags}, nil
}
