package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterIdempotent(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(nil)
	require.NoError(t, err)

	first := r.Register(Declaration{
		QualifiedName: "app.main.run",
		Name:          "run",
		Kind:          KindFunction,
		Module:        "app.main",
		File:          "app/main.py",
		Line:          10,
	})
	second := r.Register(Declaration{
		QualifiedName: "app.main.run",
		Name:          "run",
		Kind:          KindFunction,
		Module:        "app.main",
		File:          "app/main.py",
		Line:          10,
	})

	assert.Same(t, first, second, "re-registering the same name must return the same identity")
	assert.Len(t, r.All(), 1)
	assert.Empty(t, r.Diagnostics(), "identical re-registration is not a collision")
}

func TestRegistry_RegisterUpdatesLocation(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(nil)
	require.NoError(t, err)

	first := r.Register(Declaration{
		QualifiedName: "app.main.run",
		Name:          "run",
		Kind:          KindFunction,
		Module:        "app.main",
		File:          "app/main.py",
		Line:          10,
	})
	second := r.Register(Declaration{
		QualifiedName: "app.main.run",
		Name:          "run",
		Kind:          KindFunction,
		Module:        "app.main",
		File:          "app/main.py",
		Line:          42,
	})

	assert.Same(t, first, second)
	assert.Equal(t, 42, first.Line, "latest registration wins the location")

	diags := r.Diagnostics()
	require.Len(t, diags, 1, "a moved declaration is a collision diagnostic, not an error")
	assert.Equal(t, DiagCollision, diags[0].Kind)
}

func TestRegistry_ExternalMarking(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry([]string{"vendor.**", "os.*"})
	require.NoError(t, err)

	internal := r.Register(Declaration{
		QualifiedName: "app.main.run",
		Name:          "run",
		Kind:          KindFunction,
		Module:        "app.main",
		File:          "app/main.py",
		Line:          1,
	})
	vendored := r.Register(Declaration{
		QualifiedName: "vendor.lib.util.helper",
		Name:          "helper",
		Kind:          KindFunction,
		Module:        "vendor.lib.util",
		File:          "vendor/lib/util.py",
		Line:          3,
	})

	assert.False(t, internal.External)
	assert.True(t, vendored.External)
	assert.Empty(t, r.Candidates("helper"),
		"external entities do not participate in bare-name resolution")
	assert.Equal(t, []string{"app.main.run"}, r.Candidates("run"))
}

func TestRegistry_RegisterExternal(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry([]string{"os.*"})
	require.NoError(t, err)

	e := r.RegisterExternal("os.path.join", KindFunction)
	assert.True(t, e.External)
	assert.Equal(t, "join", e.Name)

	again := r.RegisterExternal("os.path.join", KindClass)
	assert.Same(t, e, again)
	assert.Equal(t, KindClass, again.Kind, "class evidence upgrades a synthesized kind")

	downgrade := r.RegisterExternal("os.path.join", KindFunction)
	assert.Equal(t, KindClass, downgrade.Kind, "function evidence never downgrades")
}

func TestRegistry_AllSorted(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(nil)
	require.NoError(t, err)

	for _, name := range []string{"pkg.c", "pkg.a", "pkg.b"} {
		r.Register(Declaration{QualifiedName: name, Name: bareName(name), Kind: KindFunction, Module: "pkg", File: "pkg.py"})
	}

	var got []string
	for _, e := range r.All() {
		got = append(got, e.QualifiedName)
	}
	assert.Equal(t, []string{"pkg.a", "pkg.b", "pkg.c"}, got)
}

func TestNewRegistry_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry([]string{"[unclosed"})
	assert.Error(t, err)
}
