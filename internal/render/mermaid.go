package render

import (
	"fmt"
	"strings"

	"diagraph/internal/graph"
)

// MermaidRenderer renders a subgraph as a Mermaid graph block. Classes are
// drawn as subroutine nodes, functions as circles; edge labels mark
// non-call relationship kinds.
type MermaidRenderer struct {
	Direction string // TD (top-down) or LR (left-right)
}

// Render renders the subgraph.
func (r *MermaidRenderer) Render(sg *graph.Subgraph) (string, error) {
	direction := r.Direction
	if direction != "LR" {
		direction = "TD"
	}

	var b strings.Builder
	b.WriteString("```mermaid\n")
	fmt.Fprintf(&b, "graph %s\n", direction)
	b.WriteString("    classDef classNode fill:#f9f,stroke:#333,stroke-width:2px,color:#000\n")
	b.WriteString("    classDef functionNode fill:#9cf,stroke:#333,stroke-width:2px,color:#000\n")
	b.WriteString("    classDef externalNode fill:#ddd,stroke:#333,stroke-width:1px,color:#000\n")

	// Nodes and edges come pre-sorted from the extractor, so the markup
	// is byte-identical across runs.
	ids := mermaidIDs(sg)
	for _, n := range sg.Nodes {
		b.WriteString("    ")
		b.WriteString(nodeLine(n, ids))
		b.WriteString("\n")
	}
	for _, e := range sg.Edges {
		b.WriteString("    ")
		b.WriteString(edgeLine(e, ids))
		b.WriteString("\n")
	}

	b.WriteString("```")
	return b.String(), nil
}

func nodeLine(n *graph.Entity, ids map[string]string) string {
	style := "functionNode"
	open, close := "((", "))"
	if n.Kind == graph.KindClass {
		style = "classNode"
		open, close = "[[", "]]"
	}
	if n.External {
		style = "externalNode"
	}
	return fmt.Sprintf("%s%s%q%s:::%s", ids[n.QualifiedName], open, n.QualifiedName, close, style)
}

func edgeLine(e *graph.Edge, ids map[string]string) string {
	label := ""
	if !e.HasKind(graph.RefCall) {
		if e.HasKind(graph.RefInherit) {
			label = "|inherits|"
		} else {
			label = "|references|"
		}
	}
	return fmt.Sprintf("%s -->%s %s", ids[e.From], label, ids[e.To])
}

// mermaidIDs assigns every node a unique Mermaid-safe identifier.
// Sanitizing can collapse distinct names ("a.b" and "a_b" both yield
// "a_b"); collisions get trailing underscores, assigned in node sort order
// so the mapping is stable.
func mermaidIDs(sg *graph.Subgraph) map[string]string {
	ids := make(map[string]string, len(sg.Nodes))
	used := make(map[string]bool, len(sg.Nodes))
	for _, n := range sg.Nodes {
		id := sanitizeID(n.QualifiedName)
		for used[id] {
			id += "_"
		}
		used[id] = true
		ids[n.QualifiedName] = id
	}
	return ids
}

// sanitizeID replaces everything Mermaid identifiers cannot carry.
func sanitizeID(qualifiedName string) string {
	var b strings.Builder
	for _, r := range qualifiedName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
