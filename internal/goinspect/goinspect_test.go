package goinspect

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/typeargs/internal/resolver"
	"github.com/funvibe/typeargs/internal/symbols"
)

const shapesSrc = `package shapes

type Named interface{ Name() string }

type Number interface{ ~int | ~float64 }

type Holder[K comparable, V any] interface {
	Named
	Get(K) V
}

type Base[T any] struct{ Value T }

type Box[T any] struct {
	Base[[]T]
	Named
	label string
}

type IntBox struct{ *Box[int] }

type Pair[K comparable, V any] struct {
	Base[map[K]V]
	extra Base[string]
}

type Multi struct {
	Box[string]
	Base[bool]
}

type ID string
`

func checkSource(t *testing.T, path, src string) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "shapes.go", src, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	conf := types.Config{}
	pkg, err := conf.Check(path, fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatalf("type-check: %v", err)
	}
	return pkg
}

func shapesTable(t *testing.T) *symbols.ClassTable {
	t.Helper()
	table, err := FromPackages(nil, checkSource(t, "example.com/shapes", shapesSrc))
	if err != nil {
		t.Fatalf("FromPackages: %v", err)
	}
	return table
}

func find(t *testing.T, table *symbols.ClassTable, name string) *symbols.Class {
	t.Helper()
	c, ok := table.Find("example.com/shapes." + name)
	if !ok {
		t.Fatalf("class %s not found; have %v", name, table.Names())
	}
	return c
}

func TestFromPackages_Classes(t *testing.T) {
	table := shapesTable(t)

	box := find(t, table, "Box")
	if box.IsInterface {
		t.Error("Box should not be an interface")
	}
	if strings.Join(box.TypeParams, ",") != "T" {
		t.Errorf("Box params = %v, want [T]", box.TypeParams)
	}
	if got := box.Super.String(); got != "example.com/shapes.Base<T[]>" {
		t.Errorf("Box super = %q", got)
	}
	if len(box.Interfaces) != 1 || box.Interfaces[0].String() != "example.com/shapes.Named" {
		t.Errorf("Box interfaces = %v", box.Interfaces)
	}

	intBox := find(t, table, "IntBox")
	if got := intBox.Super.String(); got != "example.com/shapes.Box<int>" {
		t.Errorf("IntBox super = %q (pointer embedding)", got)
	}

	holder := find(t, table, "Holder")
	if !holder.IsInterface {
		t.Error("Holder should be an interface")
	}
	if len(holder.Interfaces) != 1 {
		t.Errorf("Holder interfaces = %v, want [Named]", holder.Interfaces)
	}

	number := find(t, table, "Number")
	if len(number.Interfaces) != 0 {
		t.Errorf("union constraints are not supertypes, got %v", number.Interfaces)
	}

	// Only embedded fields count; the first embedded struct wins.
	pair := find(t, table, "Pair")
	if got := pair.Super.String(); got != "example.com/shapes.Base<map<K, V>>" {
		t.Errorf("Pair super = %q", got)
	}
	multi := find(t, table, "Multi")
	if got := multi.Super.String(); got != "example.com/shapes.Box<string>" {
		t.Errorf("Multi super = %q", got)
	}

	// Non-struct named types are not classes unless referenced.
	if _, ok := table.Find("example.com/shapes.ID"); ok {
		t.Error("ID should not be declared")
	}
	for _, leaf := range []string{"int", "string", "map"} {
		if !table.IsDefined(leaf) {
			t.Errorf("leaf %s should be declared", leaf)
		}
	}
}

func TestFromPackages_Resolve(t *testing.T) {
	r := resolver.New(shapesTable(t))
	base := "example.com/shapes.Base"

	tests := []struct {
		root string
		want string
	}{
		{"example.com/shapes.IntBox", "int[]"},
		{"example.com/shapes.Multi", "string[]"},
		{"example.com/shapes.Box", "T[]"},
		{"example.com/shapes.Pair", "map<K, V>"},
	}
	for _, tt := range tests {
		got, err := r.ResolveTypeArgument(tt.root, base, 0)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.root, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%s: got %s, want %s", tt.root, got, tt.want)
		}
	}

	ok, err := r.IsAncestor("example.com/shapes.IntBox", "example.com/shapes.Named")
	if err != nil || !ok {
		t.Errorf("IntBox should implement Named through Box (ok=%v, err=%v)", ok, err)
	}
}

func TestFromPackages_ExternalReferences(t *testing.T) {
	src := `package errs

type Wrapped interface {
	error
	Unwrap() error
}
`
	table, err := FromPackages(nil, checkSource(t, "example.com/errs", src))
	if err != nil {
		t.Fatalf("FromPackages: %v", err)
	}
	c, ok := table.Find("example.com/errs.Wrapped")
	if !ok {
		t.Fatal("Wrapped not found")
	}
	if len(c.Interfaces) != 1 || c.Interfaces[0].String() != "error" {
		t.Errorf("Wrapped interfaces = %v, want [error]", c.Interfaces)
	}
	if errClass, ok := table.Find("error"); !ok || !errClass.IsInterface {
		t.Error("predeclared error should be declared as an interface")
	}
}

func TestLoad_RealModule(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping go/packages test in short mode")
	}

	dir := t.TempDir()
	files := map[string]string{
		"go.mod":    "module example.com/shapes\n\ngo 1.22\n",
		"shapes.go": shapesSrc,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	table, err := New(WithDir(dir)).Load(context.Background(), "./...")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := resolver.New(table)
	got, err := r.ResolveTypeArgument("example.com/shapes.IntBox", "example.com/shapes.Base", 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.String() != "int[]" {
		t.Errorf("got %s, want int[]", got)
	}
}

func TestLoad_NoPatterns(t *testing.T) {
	if _, err := Load(context.Background()); err == nil {
		t.Error("expected error without patterns")
	}
}
