// Package render turns an extracted subgraph into a display format.
// Renderers consume the subgraph read-only; everything format-specific
// (layout, markup syntax) lives here, outside the graph core.
package render

import (
	"fmt"
	"sort"

	"diagraph/internal/graph"
)

// Format identifies an output format.
type Format string

const (
	FormatText    Format = "text"
	FormatMermaid Format = "mermaid"
	FormatASCII   Format = "ascii"
)

// Formats returns the supported format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatMermaid), string(FormatASCII)}
}

// Renderer renders a subgraph into a string.
type Renderer interface {
	Render(sg *graph.Subgraph) (string, error)
}

// New returns the renderer for the given format.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatText:
		return &TextRenderer{}, nil
	case FormatMermaid:
		return &MermaidRenderer{Direction: "TD"}, nil
	case FormatASCII:
		return &ASCIIRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// forward returns the subgraph's outgoing edges grouped by source, each
// group sorted by target.
func forward(sg *graph.Subgraph) map[string][]*graph.Edge {
	adj := make(map[string][]*graph.Edge)
	for _, e := range sg.Edges {
		adj[e.From] = append(adj[e.From], e)
	}
	for _, edges := range adj {
		sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
	}
	return adj
}

// reverse returns the subgraph's incoming edges grouped by target, each
// group sorted by source.
func reverse(sg *graph.Subgraph) map[string][]*graph.Edge {
	adj := make(map[string][]*graph.Edge)
	for _, e := range sg.Edges {
		adj[e.To] = append(adj[e.To], e)
	}
	for _, edges := range adj {
		sort.Slice(edges, func(i, j int) bool { return edges[i].From < edges[j].From })
	}
	return adj
}

// nodeIndex maps qualified names to subgraph nodes.
func nodeIndex(sg *graph.Subgraph) map[string]*graph.Entity {
	idx := make(map[string]*graph.Entity, len(sg.Nodes))
	for _, n := range sg.Nodes {
		idx[n.QualifiedName] = n
	}
	return idx
}
