package graph

import (
	"fmt"
	"strings"
)

// Subgraph is the depth-bounded bidirectional neighborhood of a root
// entity: the induced subgraph over every entity reachable within the bound
// in either direction. Nodes are sorted by qualified name (ties broken by
// file then line) and edges by source then target, independent of discovery
// order, so identical inputs render byte-identically. Renderers consume a
// Subgraph read-only.
type Subgraph struct {
	Root  string
	Nodes []*Entity
	Edges []*Edge
}

// Extract returns the subgraph reachable from rootID within maxDepth hops,
// following outgoing edges (dependencies) and incoming edges (dependents)
// independently. Depth 0 is the root alone; depth N expands N hops in each
// direction. A negative depth or unknown root is an InputError with no
// partial result.
func (g *Graph) Extract(rootID string, maxDepth int) (*Subgraph, error) {
	if maxDepth < 0 {
		return nil, newInputErrorf("max depth must be non-negative, got %d", maxDepth)
	}
	root, ok := g.registry.Lookup(rootID)
	if !ok {
		msg := fmt.Sprintf("entity %q not found", rootID)
		if suggestions := g.registry.Candidates(bareName(rootID)); len(suggestions) > 0 {
			msg += fmt.Sprintf(", did you mean %s?", strings.Join(suggestions, ", "))
		}
		return nil, &InputError{msg: msg}
	}
	if root.External {
		return nil, newInputErrorf("entity %q is external and cannot be a traversal root", rootID)
	}

	included := map[string]bool{rootID: true}
	g.walk(rootID, maxDepth, g.out, included)
	g.walk(rootID, maxDepth, g.in, included)

	nodes := make([]*Entity, 0, len(included))
	for id := range included {
		if e, ok := g.Entity(id); ok {
			nodes = append(nodes, e)
		}
	}
	sortEntities(nodes)

	// Induced edge set: every stored edge whose endpoints both made the cut.
	var edges []*Edge
	for from := range included {
		for to, e := range g.out[from] {
			if included[to] {
				edges = append(edges, e)
			}
		}
	}
	sortEdges(edges)

	return &Subgraph{Root: rootID, Nodes: nodes, Edges: edges}, nil
}

// walk runs a bounded BFS along one adjacency direction, adding every node
// it reaches to included. A per-direction visited set keyed by identity
// guarantees termination regardless of cycle length; the root starts
// visited at hop 0. External entities are included as terminal leaves and
// never expanded, whatever depth budget remains.
func (g *Graph) walk(rootID string, maxDepth int, adj map[string]map[string]*Edge, included map[string]bool) {
	type hop struct {
		id    string
		depth int
	}
	visited := map[string]bool{rootID: true}
	queue := []hop{{id: rootID, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth == maxDepth {
			continue
		}
		for _, next := range sortedKeys(adj[cur.id]) {
			if visited[next] {
				continue
			}
			visited[next] = true
			included[next] = true
			if e, ok := g.Entity(next); ok && e.External {
				continue
			}
			queue = append(queue, hop{id: next, depth: cur.depth + 1})
		}
	}
}

// Node returns the subgraph node with the given qualified name.
func (sg *Subgraph) Node(id string) (*Entity, bool) {
	for _, n := range sg.Nodes {
		if n.QualifiedName == id {
			return n, true
		}
	}
	return nil, false
}
