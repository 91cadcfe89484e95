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

const pythonFixture = `from analyzer.entity import Entity
import os.path
import helpers as h

class Base:
    pass

class Parser(Base):
    def __init__(self, entity: Entity):
        self.entity = entity

    def parse(self):
        build(self.entity)

def build(item):
    return format_item(item)

def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
`

func parsePythonFixture(t *testing.T, content, rel string) *graph.FileParse {
	t.Helper()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fp, err := NewPythonParser(tmpDir).ParseFile(context.Background(), path)
	require.NoError(t, err)
	return fp
}

func declNames(fp *graph.FileParse) map[string]graph.EntityKind {
	out := make(map[string]graph.EntityKind)
	for _, d := range fp.Declarations {
		out[d.QualifiedName] = d.Kind
	}
	return out
}

func refTriples(fp *graph.FileParse) [][3]string {
	var out [][3]string
	for _, r := range fp.References {
		out = append(out, [3]string{r.From, r.To, string(r.Kind)})
	}
	return out
}

func TestPythonParser_Declarations(t *testing.T) {
	t.Parallel()

	fp := parsePythonFixture(t, pythonFixture, "analyzer/parser.py")

	assert.Equal(t, "analyzer.parser", fp.Module)
	assert.Equal(t, "analyzer/parser.py", fp.Path)

	decls := declNames(fp)
	assert.Equal(t, graph.KindClass, decls["analyzer.parser.Base"])
	assert.Equal(t, graph.KindClass, decls["analyzer.parser.Parser"])
	assert.Equal(t, graph.KindFunction, decls["analyzer.parser.build"])
	assert.Equal(t, graph.KindFunction, decls["analyzer.parser.fib"])
	assert.NotContains(t, decls, "analyzer.parser.parse", "methods are not separate entities")
	assert.NotContains(t, decls, "analyzer.parser.__init__")
}

func TestPythonParser_Imports(t *testing.T) {
	t.Parallel()

	fp := parsePythonFixture(t, pythonFixture, "analyzer/parser.py")

	assert.Equal(t, "analyzer.entity.Entity", fp.Imports["Entity"])
	assert.Equal(t, "os.path", fp.Imports["os.path"])
	assert.Equal(t, "helpers", fp.Imports["h"])
}

func TestPythonParser_References(t *testing.T) {
	t.Parallel()

	fp := parsePythonFixture(t, pythonFixture, "analyzer/parser.py")
	refs := refTriples(fp)

	assert.Contains(t, refs, [3]string{"analyzer.parser.Parser", "Base", "inherit"})
	assert.Contains(t, refs, [3]string{"analyzer.parser.Parser", "Entity", "reference"},
		"annotated __init__ params are type references from the class")
	assert.Contains(t, refs, [3]string{"analyzer.parser.Parser", "build", "call"},
		"method bodies attribute to the class")
	assert.Contains(t, refs, [3]string{"analyzer.parser.build", "format_item", "call"})
	assert.Contains(t, refs, [3]string{"analyzer.parser.fib", "fib", "call"}, "recursion is recorded")

	for _, r := range refs {
		assert.NotContains(t, r[1], "self.", "self attribute chains are instance plumbing, not references")
	}
}

func TestPythonParser_RelativeImport(t *testing.T) {
	t.Parallel()

	fp := parsePythonFixture(t, "from .entity import Entity\n", "analyzer/parser.py")
	assert.Equal(t, "analyzer.entity.Entity", fp.Imports["Entity"])
}

func TestPythonParser_Decorator(t *testing.T) {
	t.Parallel()

	src := `@register
def handler():
    pass
`
	fp := parsePythonFixture(t, src, "app.py")
	assert.Contains(t, refTriples(fp), [3]string{"app.handler", "register", "reference"})
}

func TestPythonParser_PackageInit(t *testing.T) {
	t.Parallel()

	fp := parsePythonFixture(t, "def setup():\n    pass\n", "analyzer/__init__.py")
	assert.Equal(t, "analyzer", fp.Module, "__init__.py resolves to its package")
	assert.Equal(t, graph.KindFunction, declNames(fp)["analyzer.setup"])
}

func TestPythonParser_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewPythonParser(t.TempDir()).ParseFile(context.Background(), "does/not/exist.py")
	assert.Error(t, err)
}
