package render

import (
	"fmt"
	"sort"
	"strings"

	"diagraph/internal/graph"
)

// ASCIIRenderer draws a subgraph as plain-text boxes and arrows on a
// character grid. Nodes are laid out in columns by distance from the
// root: callers to the left, dependencies to the right.
type ASCIIRenderer struct{}

const (
	asciiColSpacing = 10
	asciiRowSpacing = 2
)

// Render renders the subgraph.
func (r *ASCIIRenderer) Render(sg *graph.Subgraph) (string, error) {
	nodes := nodeIndex(sg)
	root, ok := nodes[sg.Root]
	if !ok {
		return "", fmt.Errorf("subgraph root %q missing from node set", sg.Root)
	}

	header := fmt.Sprintf("ASCII diagram for %s", root.QualifiedName)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len(header)))
	b.WriteString("\n\n")

	if len(sg.Nodes) == 1 && len(sg.Edges) == 0 {
		b.WriteString(boxText(root))
		b.WriteString("\n(no relationships to display)\n")
		return b.String(), nil
	}

	levels := assignLevels(sg)
	g := newAsciiGrid()
	positions := g.placeBoxes(sg, levels)
	for _, e := range sg.Edges {
		src, okSrc := positions[e.From]
		dst, okDst := positions[e.To]
		if !okSrc || !okDst {
			continue
		}
		g.drawArrow(src, dst)
	}

	b.WriteString(g.String())
	b.WriteString("\n")
	return b.String(), nil
}

// assignLevels computes a column index per node: 0 for the root, positive
// for dependency distance, negative for caller distance. Each node keeps
// the level closest to the root it is first reached at.
func assignLevels(sg *graph.Subgraph) map[string]int {
	fwd := forward(sg)
	rev := reverse(sg)

	levels := map[string]int{sg.Root: 0}

	type hop struct {
		id    string
		level int
	}

	queue := []hop{{id: sg.Root, level: 0}}
	seen := map[string]bool{sg.Root: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range fwd[cur.id] {
			if seen[e.To] {
				continue
			}
			seen[e.To] = true
			levels[e.To] = cur.level + 1
			queue = append(queue, hop{id: e.To, level: cur.level + 1})
		}
	}

	queue = []hop{{id: sg.Root, level: 0}}
	seen = map[string]bool{sg.Root: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range rev[cur.id] {
			if seen[e.From] {
				continue
			}
			seen[e.From] = true
			if _, placed := levels[e.From]; !placed {
				levels[e.From] = cur.level - 1
			}
			queue = append(queue, hop{id: e.From, level: cur.level - 1})
		}
	}

	// Nodes reachable only through paths the BFS trimmed still need a
	// column; park them next to the root.
	for _, n := range sg.Nodes {
		if _, placed := levels[n.QualifiedName]; !placed {
			levels[n.QualifiedName] = 0
		}
	}
	return levels
}

// boxPos is a placed box: top-left corner plus dimensions.
type boxPos struct {
	x, y, w, h int
}

// asciiGrid is a sparse character grid with tracked bounds.
type asciiGrid struct {
	cells                  map[[2]int]rune
	minX, minY, maxX, maxY int
	empty                  bool
}

func newAsciiGrid() *asciiGrid {
	return &asciiGrid{cells: make(map[[2]int]rune), empty: true}
}

func (g *asciiGrid) set(x, y int, ch rune) {
	g.cells[[2]int{x, y}] = ch
	if g.empty {
		g.minX, g.maxX = x, x
		g.minY, g.maxY = y, y
		g.empty = false
		return
	}
	g.minX = min(g.minX, x)
	g.maxX = max(g.maxX, x)
	g.minY = min(g.minY, y)
	g.maxY = max(g.maxY, y)
}

func (g *asciiGrid) at(x, y int) rune {
	if ch, ok := g.cells[[2]int{x, y}]; ok {
		return ch
	}
	return ' '
}

// placeBoxes lays nodes out column by column and draws their boxes,
// returning each node's position.
func (g *asciiGrid) placeBoxes(sg *graph.Subgraph, levels map[string]int) map[string]boxPos {
	nodes := nodeIndex(sg)

	byLevel := make(map[int][]string)
	for id, lvl := range levels {
		byLevel[lvl] = append(byLevel[lvl], id)
	}
	var order []int
	for lvl := range byLevel {
		order = append(order, lvl)
		sort.Strings(byLevel[lvl])
	}
	sort.Ints(order)

	colWidth := make(map[int]int)
	for lvl, ids := range byLevel {
		for _, id := range ids {
			if w := len(boxLabel(nodes[id])) + 2; w > colWidth[lvl] {
				colWidth[lvl] = w
			}
		}
	}

	positions := make(map[string]boxPos, len(nodes))
	x := 1
	for _, lvl := range order {
		y := 1
		for _, id := range byLevel[lvl] {
			pos := g.drawBox(nodes[id], x, y)
			positions[id] = pos
			y += pos.h + asciiRowSpacing
		}
		x += colWidth[lvl] + asciiColSpacing
	}
	return positions
}

func boxLabel(n *graph.Entity) string {
	return fmt.Sprintf(" %s (%s) ", n.QualifiedName, n.Kind)
}

// boxText renders a single entity box without grid placement.
func boxText(n *graph.Entity) string {
	label := boxLabel(n)
	border := "+" + strings.Repeat("-", len(label)) + "+"
	return border + "\n|" + label + "|\n" + border + "\n"
}

func (g *asciiGrid) drawBox(n *graph.Entity, x, y int) boxPos {
	label := boxLabel(n)
	w := len(label) + 2

	g.set(x, y, '+')
	g.set(x+w-1, y, '+')
	g.set(x, y+2, '+')
	g.set(x+w-1, y+2, '+')
	for i := 0; i < len(label); i++ {
		g.set(x+1+i, y, '-')
		g.set(x+1+i, y+2, '-')
	}
	g.set(x, y+1, '|')
	g.set(x+w-1, y+1, '|')
	for i, ch := range label {
		g.set(x+1+i, y+1, ch)
	}

	return boxPos{x: x, y: y, w: w, h: 3}
}

// drawArrow routes an edge between two boxes. Routing is horizontal
// first, with a vertical jog at the midpoint when rows differ.
func (g *asciiGrid) drawArrow(src, dst boxPos) {
	srcY := src.y + src.h/2
	dstY := dst.y + dst.h/2

	switch {
	case dst.x > src.x+src.w-1: // target column is to the right
		startX := src.x + src.w
		endX := dst.x - 1
		g.route(startX, srcY, endX, dstY)
		g.set(endX, dstY, '>')
	case src.x > dst.x+dst.w-1: // target column is to the left
		startX := src.x - 1
		endX := dst.x + dst.w
		g.route(startX, srcY, endX, dstY)
		g.set(endX, dstY, '<')
	default: // same column, route vertically along the left edge
		x := min(src.x, dst.x) - 2
		g.lineV(x, srcY, dstY)
		g.lineH(srcY, x, src.x-1)
		g.lineH(dstY, x, dst.x-1)
		g.set(dst.x-1, dstY, '>')
	}
}

// route draws an H-V-H path from (x1,y1) to (x2,y2).
func (g *asciiGrid) route(x1, y1, x2, y2 int) {
	midX := (x1 + x2) / 2
	g.lineH(y1, x1, midX)
	if y1 != y2 {
		g.set(midX, y1, '+')
		g.lineV(midX, y1, y2)
		g.set(midX, y2, '+')
	}
	g.lineH(y2, midX, x2)
}

// lineH draws a horizontal segment at row y, skipping occupied cells so
// box borders and arrowheads survive crossings.
func (g *asciiGrid) lineH(y, x1, x2 int) {
	lo, hi := min(x1, x2), max(x1, x2)
	for x := lo; x <= hi; x++ {
		switch g.at(x, y) {
		case ' ':
			g.set(x, y, '-')
		case '|':
			g.set(x, y, '+')
		}
	}
}

func (g *asciiGrid) lineV(x, y1, y2 int) {
	lo, hi := min(y1, y2), max(y1, y2)
	for y := lo; y <= hi; y++ {
		switch g.at(x, y) {
		case ' ':
			g.set(x, y, '|')
		case '-':
			g.set(x, y, '+')
		}
	}
}

func (g *asciiGrid) String() string {
	if g.empty {
		return "(empty diagram)"
	}
	var b strings.Builder
	for y := g.minY; y <= g.maxY; y++ {
		line := make([]rune, 0, g.maxX-g.minX+1)
		for x := g.minX; x <= g.maxX; x++ {
			line = append(line, g.at(x, y))
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		if y < g.maxY {
			b.WriteString("\n")
		}
	}
	return b.String()
}
