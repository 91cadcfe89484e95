package render

import (
	"fmt"
	"strings"

	"diagraph/internal/graph"
)

// TextRenderer renders a subgraph as an indented text listing: the root's
// dependencies, then the entities that use it, one tree level per hop.
type TextRenderer struct{}

// Render renders the subgraph.
func (r *TextRenderer) Render(sg *graph.Subgraph) (string, error) {
	nodes := nodeIndex(sg)
	root, ok := nodes[sg.Root]
	if !ok {
		return "", fmt.Errorf("subgraph root %q missing from node set", sg.Root)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Diagram for %s\n", root.QualifiedName)
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")

	b.WriteString("\nDependencies:\n")
	r.walkDeps(&b, sg.Root, forward(sg), nodes, 0, map[string]bool{sg.Root: true})

	b.WriteString("\nUsed by:\n")
	r.walkUsers(&b, sg.Root, reverse(sg), nodes, 0, map[string]bool{sg.Root: true})

	return b.String(), nil
}

// walkDeps writes the dependency tree below id. The visited set is copied
// per branch so a shared dependency shows under every path, while cycles
// still terminate.
func (r *TextRenderer) walkDeps(b *strings.Builder, id string, adj map[string][]*graph.Edge, nodes map[string]*graph.Entity, depth int, visited map[string]bool) {
	indent := strings.Repeat("  ", depth)
	for _, e := range adj[id] {
		target, ok := nodes[e.To]
		if !ok || visited[e.To] {
			continue
		}
		fmt.Fprintf(b, "%s- %s %s%s\n", indent, target.Kind, target.QualifiedName, externalSuffix(target))
		r.walkDeps(b, e.To, adj, nodes, depth+1, copyVisited(visited, e.To))
	}
}

func (r *TextRenderer) walkUsers(b *strings.Builder, id string, adj map[string][]*graph.Edge, nodes map[string]*graph.Entity, depth int, visited map[string]bool) {
	indent := strings.Repeat("  ", depth)
	for _, e := range adj[id] {
		source, ok := nodes[e.From]
		if !ok || visited[e.From] {
			continue
		}
		fmt.Fprintf(b, "%s- %s %s%s\n", indent, source.Kind, source.QualifiedName, externalSuffix(source))
		r.walkUsers(b, e.From, adj, nodes, depth+1, copyVisited(visited, e.From))
	}
}

func externalSuffix(e *graph.Entity) string {
	if e.External {
		return " (external)"
	}
	return ""
}

func copyVisited(visited map[string]bool, add string) map[string]bool {
	out := make(map[string]bool, len(visited)+1)
	for k := range visited {
		out[k] = true
	}
	out[add] = true
	return out
}
