package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Registry assigns a stable identity to every declared class and function
// across a scan. The qualified name is the primary key; re-registering a
// name updates location and kind but returns the same identity.
type Registry struct {
	entities map[string]*Entity
	byName   map[string][]string // bare name -> qualified names of non-external entities
	ignore   []compiledPattern
	diags    []Diagnostic
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// NewRegistry creates a registry. Declarations and references whose module
// path matches one of ignorePatterns are marked external: retained for
// display as leaf dependencies but never expanded or used as roots.
// Patterns are dotted-path globs, e.g. "os.*" or "vendor.**".
func NewRegistry(ignorePatterns []string) (*Registry, error) {
	r := &Registry{
		entities: make(map[string]*Entity),
		byName:   make(map[string][]string),
	}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		r.ignore = append(r.ignore, compiledPattern{pattern: pattern, glob: g})
	}
	return r, nil
}

// Register records a declaration and returns its entity. Registration is
// idempotent per qualified name: a repeat registration updates location and
// kind, records a collision diagnostic if the declaration moved, and keeps
// the identity.
func (r *Registry) Register(d Declaration) *Entity {
	if existing, ok := r.entities[d.QualifiedName]; ok {
		if existing.File != d.File || existing.Line != d.Line {
			r.diags = append(r.diags, Diagnostic{
				Kind: DiagCollision,
				Message: fmt.Sprintf("redeclaration of %q overrides %s:%d",
					d.QualifiedName, existing.File, existing.Line),
				File: d.File,
				Line: d.Line,
			})
		}
		existing.Kind = d.Kind
		existing.File = d.File
		existing.Line = d.Line
		return existing
	}

	e := &Entity{
		QualifiedName: d.QualifiedName,
		Name:          d.Name,
		Kind:          d.Kind,
		File:          d.File,
		Line:          d.Line,
		External:      r.MatchesIgnore(d.Module) || r.MatchesIgnore(d.QualifiedName),
	}
	r.entities[d.QualifiedName] = e
	if !e.External {
		r.byName[d.Name] = append(r.byName[d.Name], d.QualifiedName)
	}
	return e
}

// RegisterExternal records an entity synthesized from a reference into an
// ignored source root. Its true kind is unknowable without parsing the
// ignored source, so the caller supplies a best guess per reference site;
// class evidence upgrades a previous function guess, making the final kind
// independent of which reference resolved first. External entities do not
// participate in bare-name resolution.
func (r *Registry) RegisterExternal(qualifiedName string, kind EntityKind) *Entity {
	if existing, ok := r.entities[qualifiedName]; ok {
		if existing.File == "" && kind == KindClass {
			existing.Kind = KindClass
		}
		return existing
	}
	e := &Entity{
		QualifiedName: qualifiedName,
		Name:          bareName(qualifiedName),
		Kind:          kind,
		External:      true,
	}
	r.entities[qualifiedName] = e
	return e
}

// Lookup returns the entity registered under qualifiedName.
func (r *Registry) Lookup(qualifiedName string) (*Entity, bool) {
	e, ok := r.entities[qualifiedName]
	return e, ok
}

// All returns every registered entity in ascending qualified-name order,
// ties broken by file path then line.
func (r *Registry) All() []*Entity {
	all := make([]*Entity, 0, len(r.entities))
	for _, e := range r.entities {
		all = append(all, e)
	}
	sortEntities(all)
	return all
}

// Candidates returns the qualified names of non-external entities whose
// bare name equals name, in ascending order.
func (r *Registry) Candidates(name string) []string {
	candidates := r.byName[name]
	if len(candidates) == 0 {
		return nil
	}
	out := make([]string, len(candidates))
	copy(out, candidates)
	sort.Strings(out)
	return out
}

// MatchesIgnore reports whether the dotted path matches any ignore pattern.
func (r *Registry) MatchesIgnore(path string) bool {
	if path == "" {
		return false
	}
	for _, p := range r.ignore {
		if p.glob.Match(path) {
			return true
		}
	}
	return false
}

// Diagnostics returns the collision diagnostics recorded so far, in
// occurrence order.
func (r *Registry) Diagnostics() []Diagnostic {
	return r.diags
}

func bareName(qualifiedName string) string {
	if i := strings.LastIndex(qualifiedName, "."); i >= 0 {
		return qualifiedName[i+1:]
	}
	return qualifiedName
}

func sortEntities(entities []*Entity) {
	sort.Slice(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.QualifiedName != b.QualifiedName {
			return a.QualifiedName < b.QualifiedName
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}
