package hierarchy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/typeargs/internal/typesystem"
)

func composeFor(t *testing.T, g *Graph, root, target string) typesystem.Subst {
	t.Helper()
	n := nodes(t, g, root, target)
	path, err := g.FindPath(n[0], n[1])
	require.NoError(t, err)
	return Compose(path)
}

func TestComposeLinear(t *testing.T) {
	g := NewGraph(buildTable(t,
		decl{name: "A", params: []string{"T"}},
		decl{name: "B", extends: "A<String>"},
	))
	subst := composeFor(t, g, "B", "A")

	want := typesystem.Subst{{Owner: "A", Name: "T"}: typesystem.TCon{Name: "String"}}
	if diff := cmp.Diff(want, subst); diff != "" {
		t.Errorf("Compose mismatch (-want +got):\n%s", diff)
	}
}

func TestComposePropagates(t *testing.T) {
	g := NewGraph(buildTable(t,
		decl{name: "A", params: []string{"K", "V"}},
		decl{name: "B", params: []string{"X"}, extends: "A<String, List<X>>"},
		decl{name: "C", params: []string{"Y"}, extends: "B<Map<Y, Integer>>"},
		decl{name: "D", extends: "C<Long>"},
	))
	subst := composeFor(t, g, "D", "A")

	v, ok := subst.Lookup("A", "V")
	require.True(t, ok)
	assert.Equal(t, "List<Map<Long, Integer>>", v.String())
	assert.True(t, typesystem.IsResolved(v))

	k, _ := subst.Lookup("A", "K")
	assert.Equal(t, "String", k.String())
}

func TestComposeUnbound(t *testing.T) {
	g := NewGraph(buildTable(t,
		decl{name: "A", params: []string{"T"}},
		decl{name: "E", params: []string{"T"}, extends: "A<T>"},
	))
	subst := composeFor(t, g, "E", "A")

	got, ok := subst.Lookup("A", "T")
	require.True(t, ok)
	assert.Equal(t, typesystem.TVar{Owner: "E", Name: "T"}, got)
}

func TestComposeRawEdge(t *testing.T) {
	g := NewGraph(buildTable(t,
		decl{name: "A", params: []string{"T"}},
		decl{name: "B", params: []string{"U"}, extends: "A<U>"},
		decl{name: "C", extends: "B"},
	))
	subst := composeFor(t, g, "C", "A")

	_, ok := subst.Lookup("B", "U")
	assert.False(t, ok, "raw edge must not bind B.U")

	// The variable passes through unbound.
	got, ok := subst.Lookup("A", "T")
	require.True(t, ok)
	assert.Equal(t, typesystem.TVar{Owner: "B", Name: "U"}, got)
}

func TestComposeRawTarget(t *testing.T) {
	g := NewGraph(buildTable(t,
		decl{name: "A", params: []string{"T"}},
		decl{name: "B", extends: "A"},
	))
	subst := composeFor(t, g, "B", "A")
	assert.Empty(t, subst)
}

func TestComposeEmptyPath(t *testing.T) {
	assert.Empty(t, Compose(nil))
}
