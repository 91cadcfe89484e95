package parsers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagraph/internal/graph"
)

const goFixture = `package sample

import (
	"fmt"

	str "strings"
)

type Renderer interface {
	Render() string
}

type Base struct{}

type TextRenderer struct {
	Base
	width int
}

func (r *TextRenderer) Render() string {
	return helper()
}

func helper() string {
	fmt.Println(str.ToUpper("x"))
	return ""
}
`

func parseGoFixture(t *testing.T, content, rel string) *graph.FileParse {
	t.Helper()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fp, err := NewGoParser(tmpDir).ParseFile(context.Background(), path)
	require.NoError(t, err)
	return fp
}

func TestGoParser_Declarations(t *testing.T) {
	t.Parallel()

	fp := parseGoFixture(t, goFixture, "render/text.go")

	assert.Equal(t, "render.text", fp.Module)

	decls := declNames(fp)
	assert.Equal(t, graph.KindClass, decls["render.text.Renderer"])
	assert.Equal(t, graph.KindClass, decls["render.text.Base"])
	assert.Equal(t, graph.KindClass, decls["render.text.TextRenderer"])
	assert.Equal(t, graph.KindFunction, decls["render.text.helper"])
	assert.NotContains(t, decls, "render.text.Render", "methods attribute to their receiver type")
}

func TestGoParser_References(t *testing.T) {
	t.Parallel()

	fp := parseGoFixture(t, goFixture, "render/text.go")
	refs := refTriples(fp)

	assert.Contains(t, refs, [3]string{"render.text.TextRenderer", "Base", "inherit"},
		"embedded types are inherit references")
	assert.Contains(t, refs, [3]string{"render.text.TextRenderer", "helper", "call"},
		"method bodies attribute to the receiver type")
	assert.Contains(t, refs, [3]string{"render.text.helper", "fmt.Println", "call"})
	assert.Contains(t, refs, [3]string{"render.text.helper", "str.ToUpper", "call"})
}

func TestGoParser_Imports(t *testing.T) {
	t.Parallel()

	fp := parseGoFixture(t, goFixture, "render/text.go")

	assert.Equal(t, "fmt", fp.Imports["fmt"])
	assert.Equal(t, "strings", fp.Imports["str"])
}

func TestGoParser_SyntaxError(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "broken.go")
	require.NoError(t, os.WriteFile(path, []byte("package sample\nfunc {"), 0o644))

	_, err := NewGoParser(tmpDir).ParseFile(context.Background(), path)
	assert.Error(t, err)
}

func TestDispatcher_RoutesByExtension(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	pyPath := filepath.Join(tmpDir, "mod.py")
	require.NoError(t, os.WriteFile(pyPath, []byte("def f():\n    pass\n"), 0o644))

	d := NewDispatcher(NewPythonParser(tmpDir), NewGoParser(tmpDir))

	fp, err := d.ParseFile(context.Background(), pyPath)
	require.NoError(t, err)
	assert.Equal(t, "mod", fp.Module)

	_, err = d.ParseFile(context.Background(), filepath.Join(tmpDir, "notes.txt"))
	assert.Error(t, err, "unknown extensions are rejected")
}

func TestModulePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want string
	}{
		{"analyzer/parser.py", "analyzer.parser"},
		{"analyzer/__init__.py", "analyzer"},
		{"main.py", "main"},
		{"internal/render/text.go", "internal.render.text"},
	}
	for _, tt := range tests {
		got := modulePath("/root/proj", filepath.Join("/root/proj", filepath.FromSlash(tt.rel)))
		assert.Equal(t, tt.want, got)
	}
}
