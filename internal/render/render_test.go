package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagraph/internal/graph"
)

// fixtureSubgraph builds a small graph around app.parser:
//
//	app.main --> app.Parser --> app.Base (inherits)
//	                       \--> os.path (external)
func fixtureSubgraph(t *testing.T, depth int) *graph.Subgraph {
	t.Helper()

	reg, err := graph.NewRegistry([]string{"os.**"})
	require.NoError(t, err)

	reg.Register(graph.Declaration{QualifiedName: "app.main", Name: "main", Kind: graph.KindFunction, Module: "app", File: "app/main.py", Line: 3})
	reg.Register(graph.Declaration{QualifiedName: "app.Parser", Name: "Parser", Kind: graph.KindClass, Module: "app", File: "app/parser.py", Line: 5})
	reg.Register(graph.Declaration{QualifiedName: "app.Base", Name: "Base", Kind: graph.KindClass, Module: "app", File: "app/base.py", Line: 1})
	reg.RegisterExternal("os.path", graph.KindFunction)

	g := graph.NewGraph(reg)
	require.NoError(t, g.AddEdge("app.main", "app.Parser", graph.RefCall))
	require.NoError(t, g.AddEdge("app.Parser", "app.Base", graph.RefInherit))
	require.NoError(t, g.AddEdge("app.Parser", "os.path", graph.RefCall))

	sg, err := g.Extract("app.Parser", depth)
	require.NoError(t, err)
	return sg
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range Formats() {
		r, err := New(Format(format))
		require.NoError(t, err, format)
		assert.NotNil(t, r)
	}

	_, err := New(Format("dot"))
	assert.Error(t, err)
}

func TestTextRenderer(t *testing.T) {
	t.Parallel()

	sg := fixtureSubgraph(t, 2)
	out, err := (&TextRenderer{}).Render(sg)
	require.NoError(t, err)

	assert.Contains(t, out, "Diagram for app.Parser")
	assert.Contains(t, out, "Dependencies:")
	assert.Contains(t, out, "Used by:")
	assert.Contains(t, out, "- class app.Base")
	assert.Contains(t, out, "- function os.path (external)")
	assert.Contains(t, out, "- function app.main")

	// Dependencies of the root sit at the first indent level.
	assert.Contains(t, out, "\n- class app.Base")
}

func TestTextRenderer_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := (&TextRenderer{}).Render(fixtureSubgraph(t, 2))
	require.NoError(t, err)
	second, err := (&TextRenderer{}).Render(fixtureSubgraph(t, 2))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMermaidRenderer(t *testing.T) {
	t.Parallel()

	sg := fixtureSubgraph(t, 2)
	out, err := (&MermaidRenderer{Direction: "TD"}).Render(sg)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "```mermaid", lines[0])
	assert.Equal(t, "graph TD", lines[1])
	assert.Equal(t, "```", lines[len(lines)-1])

	assert.Contains(t, out, `app_Parser[["app.Parser"]]:::classNode`)
	assert.Contains(t, out, `app_main(("app.main")):::functionNode`)
	assert.Contains(t, out, `os_path(("os.path")):::externalNode`)
	assert.Contains(t, out, "app_main --> app_Parser")
	assert.Contains(t, out, "app_Parser -->|inherits| app_Base")
	assert.Contains(t, out, "app_Parser --> os_path")

	// Each node is defined exactly once.
	assert.Equal(t, 1, strings.Count(out, `[["app.Parser"]]`))
}

func TestMermaidRenderer_SanitizedIDCollision(t *testing.T) {
	t.Parallel()

	reg, err := graph.NewRegistry(nil)
	require.NoError(t, err)
	reg.Register(graph.Declaration{QualifiedName: "app.do.work", Name: "work", Kind: graph.KindFunction, Module: "app.do", File: "app/do.py", Line: 1})
	reg.Register(graph.Declaration{QualifiedName: "app.do_work", Name: "do_work", Kind: graph.KindFunction, Module: "app", File: "app.py", Line: 1})

	g := graph.NewGraph(reg)
	require.NoError(t, g.AddEdge("app.do_work", "app.do.work", graph.RefCall))

	sg, err := g.Extract("app.do_work", 1)
	require.NoError(t, err)

	out, err := (&MermaidRenderer{}).Render(sg)
	require.NoError(t, err)

	// Both names sanitize to app_do_work; the later one in sort order gets
	// a disambiguating suffix so the nodes stay distinct.
	assert.Contains(t, out, `app_do_work(("app.do.work")):::functionNode`)
	assert.Contains(t, out, `app_do_work_(("app.do_work")):::functionNode`)
	assert.Contains(t, out, "app_do_work_ --> app_do_work")
}

func TestMermaidRenderer_DefaultDirection(t *testing.T) {
	t.Parallel()

	out, err := (&MermaidRenderer{}).Render(fixtureSubgraph(t, 1))
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD\n")

	out, err = (&MermaidRenderer{Direction: "LR"}).Render(fixtureSubgraph(t, 1))
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR\n")
}

func TestASCIIRenderer(t *testing.T) {
	t.Parallel()

	sg := fixtureSubgraph(t, 2)
	out, err := (&ASCIIRenderer{}).Render(sg)
	require.NoError(t, err)

	assert.Contains(t, out, "ASCII diagram for app.Parser")
	assert.Contains(t, out, "| app.Parser (class) |")
	assert.Contains(t, out, "| app.main (function) |")
	assert.Contains(t, out, "| app.Base (class) |")
	assert.Contains(t, out, ">")
	assert.Contains(t, out, "+-")
}

func TestASCIIRenderer_IsolatedRoot(t *testing.T) {
	t.Parallel()

	reg, err := graph.NewRegistry(nil)
	require.NoError(t, err)
	reg.Register(graph.Declaration{QualifiedName: "app.solo", Name: "solo", Kind: graph.KindFunction, Module: "app", File: "app/solo.py", Line: 1})

	g := graph.NewGraph(reg)
	sg, err := g.Extract("app.solo", 3)
	require.NoError(t, err)

	out, err := (&ASCIIRenderer{}).Render(sg)
	require.NoError(t, err)
	assert.Contains(t, out, "| app.solo (function) |")
	assert.Contains(t, out, "(no relationships to display)")
}

func TestASCIIRenderer_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := (&ASCIIRenderer{}).Render(fixtureSubgraph(t, 2))
	require.NoError(t, err)
	second, err := (&ASCIIRenderer{}).Render(fixtureSubgraph(t, 2))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
