package resolver

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funvibe/typeargs/internal/hierarchy"
	"github.com/funvibe/typeargs/internal/symbols"
	"github.com/funvibe/typeargs/internal/typesystem"
)

type decl struct {
	name       string
	iface      bool
	params     []string
	extends    string
	implements []string
}

func buildTable(t *testing.T, decls ...decl) *symbols.ClassTable {
	t.Helper()
	table := symbols.NewClassTable()
	for _, d := range decls {
		scope := typesystem.ParamScope(d.name, d.params)
		c := symbols.Class{Name: d.name, IsInterface: d.iface, TypeParams: d.params}
		if d.extends != "" {
			c.Super = typesystem.MustParse(d.extends, scope)
		}
		for _, i := range d.implements {
			c.Interfaces = append(c.Interfaces, typesystem.MustParse(i, scope))
		}
		require.NoError(t, table.Define(c))
	}
	require.NoError(t, table.Validate())
	return table
}

// fixture covers every scenario used below.
func fixture(t *testing.T) *symbols.ClassTable {
	return buildTable(t,
		decl{name: "List", iface: true, params: []string{"E"}},
		decl{name: "Map", iface: true, params: []string{"K", "V"}},
		decl{name: "A", params: []string{"T"}},
		decl{name: "B", extends: "A<String>"},
		decl{name: "D", extends: "A<List<B>>"},
		decl{name: "E", params: []string{"T"}, extends: "A<T>"},
		decl{name: "F", extends: "E<Integer>"},
		decl{name: "Raw", extends: "A"},
		decl{name: "I1", iface: true, params: []string{"T"}},
		decl{name: "I2", iface: true, implements: []string{"I1<String>"}},
		decl{name: "I3", iface: true, implements: []string{"I1<Integer>"}},
		decl{name: "C", implements: []string{"I2", "I3"}},
		decl{name: "Dict", params: []string{"X"}, implements: []string{"Map<String, List<X>>"}},
		decl{name: "IntDict", extends: "Dict<Integer[]>"},
		decl{name: "Unrelated"},
	)
}

func newResolver(t *testing.T, opts ...Option) *Resolver {
	return New(fixture(t), opts...)
}

func assertType(t *testing.T, want, got typesystem.Type) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("type mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveLinear(t *testing.T) {
	r := newResolver(t)
	got, err := r.ResolveTypeArgument("B", "A", 0)
	require.NoError(t, err)
	assertType(t, typesystem.TCon{Name: "String"}, got)
}

func TestResolveThroughGenericIntermediate(t *testing.T) {
	r := newResolver(t)
	got, err := r.ResolveTypeArgument("F", "A", 0)
	require.NoError(t, err)
	assertType(t, typesystem.TCon{Name: "Integer"}, got)
}

func TestResolveNotRelated(t *testing.T) {
	r := newResolver(t)
	for _, tc := range []struct{ root, target string }{
		{"Unrelated", "A"},
		{"A", "B"}, // subclass is not an ancestor
		{"B", "I1"},
	} {
		_, err := r.ResolveTypeArgument(tc.root, tc.target, 0)
		assert.ErrorIs(t, err, ErrNotRelated, "%s -> %s", tc.root, tc.target)

		var re *ResolveError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, tc.root, re.Root)
		assert.Equal(t, tc.target, re.Target)
	}
}

func TestResolveInvalidIndex(t *testing.T) {
	r := newResolver(t)
	for _, idx := range []int{-1, 1, 5} {
		_, err := r.ResolveTypeArgument("B", "A", idx)
		assert.ErrorIs(t, err, ErrInvalidIndex, "index %d", idx)
	}
	// Relatedness is checked before the index.
	_, err := r.ResolveTypeArgument("Unrelated", "A", 3)
	assert.ErrorIs(t, err, ErrNotRelated)
	assert.NotErrorIs(t, err, ErrInvalidIndex)

	// Self resolution still validates the index.
	_, err = r.ResolveTypeArgument("A", "A", 1)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestResolveNotRelatedUnwrapsNotFound(t *testing.T) {
	r := newResolver(t)
	_, err := r.ResolveTypeArgument("A", "Unrelated", 0)
	assert.ErrorIs(t, err, ErrNotRelated)
	assert.ErrorIs(t, err, hierarchy.ErrNotFound)
}

func TestResolveIdempotent(t *testing.T) {
	r := newResolver(t)
	first, err := r.ResolveTypeArgument("D", "A", 0)
	require.NoError(t, err)
	second, err := r.ResolveTypeArgument("D", "A", 0)
	require.NoError(t, err)
	assert.True(t, typesystem.Equal(first, second))

	s1, err := r.Substitution("D", "A")
	require.NoError(t, err)
	s2, err := r.Substitution("D", "A")
	require.NoError(t, err)
	assert.Equal(t, reflect.ValueOf(s1).Pointer(), reflect.ValueOf(s2).Pointer(),
		"cached substitution should be the same instance")

	stats := r.CacheStats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(3), stats.Hits)
	assert.Equal(t, 1, stats.Entries)
}

func TestResolveWithoutCache(t *testing.T) {
	r := newResolver(t, WithCache(false))
	s1, err := r.Substitution("D", "A")
	require.NoError(t, err)
	s2, err := r.Substitution("D", "A")
	require.NoError(t, err)
	assert.NotEqual(t, reflect.ValueOf(s1).Pointer(), reflect.ValueOf(s2).Pointer())
	assert.Equal(t, s1, s2)
	assert.Equal(t, CacheStats{}, r.CacheStats())
}

func TestResolveDiamondFirstDeclaredWins(t *testing.T) {
	r := newResolver(t)
	got, err := r.ResolveTypeArgument("C", "I1", 0)
	require.NoError(t, err)
	assertType(t, typesystem.TCon{Name: "String"}, got)
}

func TestResolveNestedGenerics(t *testing.T) {
	r := newResolver(t)
	field := typesystem.TVar{Owner: "A", Name: "T"}
	got, err := r.ResolveActualType("D", field)
	require.NoError(t, err)
	assertType(t, typesystem.TApp{
		Constructor: typesystem.TCon{Name: "List"},
		Args:        []typesystem.Type{typesystem.TCon{Name: "B"}},
	}, got)
}

func TestResolveUnbound(t *testing.T) {
	r := newResolver(t)
	got, err := r.ResolveTypeArgument("E", "A", 0)
	require.NoError(t, err)
	assertType(t, typesystem.TVar{Owner: "E", Name: "T"}, got)
	assert.False(t, typesystem.IsResolved(got))
}

func TestResolveSelf(t *testing.T) {
	r := newResolver(t)
	got, err := r.ResolveTypeArgument("A", "A", 0)
	require.NoError(t, err)
	assertType(t, typesystem.TVar{Owner: "A", Name: "T"}, got)
}

func TestResolveNoData(t *testing.T) {
	r := newResolver(t)
	_, err := r.ResolveTypeArgument("Raw", "A", 0)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Contains(t, err.Error(), "A[0]")
}

func TestResolveUnknownClass(t *testing.T) {
	r := newResolver(t)
	_, err := r.ResolveTypeArgument("Nope", "A", 0)
	require.Error(t, err)
	var notFound *typesystem.ClassNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Nope", notFound.Name)

	var re *ResolveError
	assert.False(t, errors.As(err, &re), "unknown classes are not resolution errors")
}

func TestResolveAllTypeArguments(t *testing.T) {
	r := newResolver(t)
	got, err := r.ResolveAllTypeArguments("IntDict", "Map")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "String", got[0].String())
	assert.Equal(t, "List<Integer[]>", got[1].String())

	none, err := r.ResolveAllTypeArguments("B", "B")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = r.ResolveAllTypeArguments("Raw", "A")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = r.ResolveAllTypeArguments("Unrelated", "Map")
	assert.ErrorIs(t, err, ErrNotRelated)
}

func TestResolveActualType(t *testing.T) {
	r := newResolver(t)
	scopeA := typesystem.ParamScope("A", []string{"T"})
	scopeMap := typesystem.ParamScope("Map", []string{"K", "V"})

	tests := []struct {
		name    string
		context string
		expr    typesystem.Type
		want    string
	}{
		{"array of variable", "B", typesystem.MustParse("T[]", scopeA), "String[]"},
		{"wildcard bound", "B", typesystem.MustParse("List<? extends T>", scopeA), "List<? extends String>"},
		{"concrete unchanged", "B", typesystem.MustParse("Map<String, Integer>", nil), "Map<String, Integer>"},
		{"several owners", "IntDict", typesystem.MustParse("Map<V, K>", scopeMap), "Map<List<Integer[]>, String>"},
		{"unbound stays variable", "E", typesystem.MustParse("List<T>", scopeA), "List<T>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveActualType(tt.context, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := r.ResolveActualType("B", typesystem.TVar{Owner: "A", Name: "Missing"})
	var unknown *UnknownParameterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "A", unknown.Owner)

	_, err = r.ResolveActualType("Unrelated", typesystem.TVar{Owner: "A", Name: "T"})
	assert.ErrorIs(t, err, ErrNotRelated)
}

func TestRawClass(t *testing.T) {
	r := newResolver(t)
	scopeA := typesystem.ParamScope("A", []string{"T"})

	tests := []struct {
		context string
		expr    typesystem.Type
		want    string
	}{
		{"B", typesystem.MustParse("T", scopeA), "String"},
		{"D", typesystem.MustParse("T", scopeA), "List"},
		{"B", typesystem.MustParse("T[][]", scopeA), "String[][]"},
		{"B", typesystem.MustParse("?", nil), "Object"},
		{"B", typesystem.MustParse("? extends Map<T, T>", scopeA), "Map"},
	}
	for _, tt := range tests {
		got, err := r.RawClass(tt.context, tt.expr)
		require.NoError(t, err, tt.expr.String())
		assert.Equal(t, tt.want, got, tt.expr.String())
	}

	_, err := r.RawClass("E", typesystem.MustParse("T", scopeA))
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestIsAncestor(t *testing.T) {
	r := newResolver(t)
	for _, tc := range []struct {
		root, target string
		want         bool
	}{
		{"B", "A", true},
		{"B", "B", true},
		{"C", "I1", true},
		{"IntDict", "Map", true},
		{"A", "B", false},
		{"Unrelated", "I1", false},
	} {
		got, err := r.IsAncestor(tc.root, tc.target)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s -> %s", tc.root, tc.target)
	}

	_, err := r.IsAncestor("B", "Missing")
	assert.Error(t, err)
}

func TestResolveConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newResolver(t)
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			root := []string{"B", "D", "F", "C"}[i%4]
			target := "A"
			if root == "C" {
				target = "I1"
			}
			got, err := r.ResolveTypeArgument(root, target, 0)
			assert.NoError(t, err)
			assert.True(t, typesystem.IsResolved(got))
		}(i)
	}
	wg.Wait()

	stats := r.CacheStats()
	assert.Equal(t, 4, stats.Entries)
	assert.Equal(t, int64(4), stats.Misses)
}

func TestResolveLogsPath(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newResolver(t, WithLogger(zap.New(core)))

	_, err := r.ResolveTypeArgument("F", "A", 0)
	require.NoError(t, err)

	entries := logs.FilterMessage("Composed inheritance path").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "F", fields["root"])
	assert.Equal(t, "F -> E<Integer>, E -> A<T>", fields["path"])
}
