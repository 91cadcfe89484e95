package graph

import (
	"fmt"
	"sort"

	dgraph "github.com/dominikbraun/graph"
)

// Graph is the directed relationship graph over registered entities.
// Forward and reverse adjacency are both kept so that dependency and
// dependent queries are O(degree) in either direction.
type Graph struct {
	registry *Registry
	store    dgraph.Graph[string, *Entity]
	out      map[string]map[string]*Edge // from -> to -> edge
	in       map[string]map[string]*Edge // to -> from -> edge
	edges    int
}

// NewGraph creates an empty graph over the given registry. One graph
// instance serves one scan; concurrent scans use independent instances.
func NewGraph(registry *Registry) *Graph {
	return &Graph{
		registry: registry,
		store: dgraph.New(func(e *Entity) string { return e.QualifiedName },
			dgraph.Directed()),
		out: make(map[string]map[string]*Edge),
		in:  make(map[string]map[string]*Edge),
	}
}

// AddEdge records one observed reference from -> to. Both endpoints must be
// registered. Repeat insertions collapse onto a single edge with a
// multiplicity count and an accumulated kind set; the final state does not
// depend on insertion order.
func (g *Graph) AddEdge(from, to string, kind RefKind) error {
	src, ok := g.registry.Lookup(from)
	if !ok {
		return fmt.Errorf("unknown source entity %q", from)
	}
	dst, ok := g.registry.Lookup(to)
	if !ok {
		return fmt.Errorf("unknown target entity %q", to)
	}

	// The adjacency maps below are the authoritative index; the store
	// mirror tolerates duplicate vertices and edges.
	_ = g.store.AddVertex(src)
	_ = g.store.AddVertex(dst)
	_ = g.store.AddEdge(from, to)

	edge := g.out[from][to]
	if edge == nil {
		edge = &Edge{From: from, To: to}
		if g.out[from] == nil {
			g.out[from] = make(map[string]*Edge)
		}
		if g.in[to] == nil {
			g.in[to] = make(map[string]*Edge)
		}
		g.out[from][to] = edge
		g.in[to][from] = edge
		g.edges++
	}
	edge.Count++
	edge.addKind(kind)
	return nil
}

// Entity returns the entity known under id. Edge endpoints are served from
// the graph store; entities with no edges fall back to the registry.
func (g *Graph) Entity(id string) (*Entity, bool) {
	if e, err := g.store.Vertex(id); err == nil {
		return e, true
	}
	return g.registry.Lookup(id)
}

// Dependencies returns the targets of id's outgoing edges in ascending
// qualified-name order.
func (g *Graph) Dependencies(id string) []string {
	return sortedKeys(g.out[id])
}

// Dependents returns the sources of id's incoming edges in ascending
// qualified-name order.
func (g *Graph) Dependents(id string) []string {
	return sortedKeys(g.in[id])
}

// EdgeBetween returns the collapsed edge from -> to, if one exists.
func (g *Graph) EdgeBetween(from, to string) (*Edge, bool) {
	e, ok := g.out[from][to]
	return e, ok
}

// Edges returns every edge sorted by source then target qualified name.
func (g *Graph) Edges() []*Edge {
	all := make([]*Edge, 0, g.edges)
	for _, targets := range g.out {
		for _, e := range targets {
			all = append(all, e)
		}
	}
	sortEdges(all)
	return all
}

// EdgeCount returns the number of collapsed edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

func sortedKeys(m map[string]*Edge) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortEdges(edges []*Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
}
