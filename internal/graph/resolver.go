package graph

import (
	"fmt"
	"strings"
)

// Resolver maps raw reference occurrences onto registry identities.
//
// Resolution runs in three stages, each total and deterministic:
//  1. exact qualified-name match in the referencing file's module scope
//     (or the raw name taken as already qualified),
//  2. match via the file's import table,
//  3. bare-name match when exactly one non-external candidate exists.
//
// Anything else falls through to an explicit dangling result. Ambiguous
// bare names are never guessed at: a silent wrong answer is worse than a
// visible gap.
type Resolver struct {
	registry *Registry
	diags    []Diagnostic
}

// NewResolver creates a resolver over a fully populated registry. The
// registry must be complete before resolution begins; the builder enforces
// the phase barrier.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve maps one raw reference against the file scope it was found in.
// The second result is false when the reference stays dangling; the cause
// is recorded as a diagnostic.
func (r *Resolver) Resolve(ref RawReference, scope *FileParse) (*Entity, bool) {
	// Stage 1: module scope, then the raw name as a qualified name.
	if scope != nil && scope.Module != "" {
		if e, ok := r.registry.Lookup(scope.Module + "." + ref.To); ok {
			return r.hit(e, ref.Kind)
		}
	}
	if e, ok := r.registry.Lookup(ref.To); ok {
		return r.hit(e, ref.Kind)
	}

	// Stage 2: the file's import table.
	if scope != nil {
		if target, ok := lookupImport(scope.Imports, ref.To); ok {
			if e, ok := r.registry.Lookup(target); ok {
				return r.hit(e, ref.Kind)
			}
			if r.registry.MatchesIgnore(target) || r.registry.MatchesIgnore(parentModule(target)) {
				return r.registry.RegisterExternal(target, kindForRef(ref.Kind)), true
			}
		}
	}

	// Stage 3: unique bare name across the registry.
	candidates := r.registry.Candidates(ref.To)
	switch len(candidates) {
	case 1:
		e, _ := r.registry.Lookup(candidates[0])
		return e, true
	case 0:
		if r.registry.MatchesIgnore(ref.To) || r.registry.MatchesIgnore(parentModule(ref.To)) {
			return r.registry.RegisterExternal(ref.To, kindForRef(ref.Kind)), true
		}
		r.diags = append(r.diags, Diagnostic{
			Kind:    DiagDangling,
			Message: fmt.Sprintf("unresolved reference to %q from %s", ref.To, ref.From),
			File:    ref.File,
			Line:    ref.Line,
		})
		return nil, false
	default:
		r.diags = append(r.diags, Diagnostic{
			Kind: DiagAmbiguous,
			Message: fmt.Sprintf("ambiguous reference to %q from %s: candidates %s",
				ref.To, ref.From, strings.Join(candidates, ", ")),
			File: ref.File,
			Line: ref.Line,
		})
		return nil, false
	}
}

// hit finalizes a resolution. A synthesized external's kind is a per-site
// guess, so inherit evidence arriving through a later reference upgrades it
// to class; without the upgrade the kind would depend on which file
// resolved first.
func (r *Resolver) hit(e *Entity, kind RefKind) (*Entity, bool) {
	if e.External && e.File == "" && kind == RefInherit {
		e.Kind = KindClass
	}
	return e, true
}

// Diagnostics returns the dangling/ambiguous diagnostics recorded so far,
// in occurrence order.
func (r *Resolver) Diagnostics() []Diagnostic {
	return r.diags
}

// lookupImport resolves a raw name through the import table. Dotted raw
// names fall back to rewriting their first segment, so "mod.f" resolves
// when "mod" is imported.
func lookupImport(imports map[string]string, raw string) (string, bool) {
	if len(imports) == 0 {
		return "", false
	}
	if target, ok := imports[raw]; ok {
		return target, true
	}
	if head, rest, found := strings.Cut(raw, "."); found {
		if target, ok := imports[head]; ok {
			return target + "." + rest, true
		}
	}
	return "", false
}

// kindForRef guesses an external entity's kind from the reference site:
// inheriting from it implies a class, anything else is treated as callable.
func kindForRef(kind RefKind) EntityKind {
	if kind == RefInherit {
		return KindClass
	}
	return KindFunction
}

func parentModule(qualifiedName string) string {
	if i := strings.LastIndex(qualifiedName, "."); i >= 0 {
		return qualifiedName[:i]
	}
	return ""
}
