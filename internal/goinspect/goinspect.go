// Package goinspect builds class tables from Go source.
//
// Go has no inheritance, but embedding plays the same role for the
// resolver: a struct's first embedded struct is treated as its superclass,
// and embedded interfaces (in structs or interfaces) as implemented
// interfaces. Generic instantiations such as Base[[]T] become
// parameterized supertypes, so the resolver can answer what Base's T is
// for any struct that embeds it, directly or transitively.
package goinspect

import (
	"context"
	"fmt"
	"go/types"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/funvibe/typeargs/internal/symbols"
	"github.com/funvibe/typeargs/internal/typesystem"
)

// Loader loads Go packages and maps their named types to classes.
type Loader struct {
	logger *zap.Logger
	dir    string
	tests  bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithDir sets the directory patterns are resolved in. Defaults to the
// current directory.
func WithDir(dir string) Option {
	return func(ld *Loader) { ld.dir = dir }
}

// WithTests includes test packages.
func WithTests(tests bool) Option {
	return func(ld *Loader) { ld.tests = tests }
}

// New creates a loader.
func New(opts ...Option) *Loader {
	ld := &Loader{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load loads the packages matching patterns with default options.
func Load(ctx context.Context, patterns ...string) (*symbols.ClassTable, error) {
	return New().Load(ctx, patterns...)
}

// Load loads the packages matching patterns (as understood by go list)
// and returns a validated class table holding every named struct and
// interface type they declare, plus the types those reference.
func (ld *Loader) Load(ctx context.Context, patterns ...string) (*symbols.ClassTable, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no package patterns given")
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedTypes |
			packages.NeedImports |
			packages.NeedDeps,
		Dir:   ld.dir,
		Env:   append(os.Environ(), "GOWORK=off"),
		Tests: ld.tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	var errs []string
	var typed []*types.Package
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
		}
		if pkg.Types != nil {
			typed = append(typed, pkg.Types)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}
	if len(typed) == 0 {
		return nil, fmt.Errorf("no packages matched %s", strings.Join(patterns, " "))
	}

	return FromPackages(ld.logger, typed...)
}

// FromPackages maps already type-checked packages to a class table.
func FromPackages(logger *zap.Logger, pkgs ...*types.Package) (*symbols.ClassTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &builder{
		logger: logger,
		table:  symbols.NewEmptyClassTable(),
		queued: make(map[string]bool),
		leaves: make(map[string]int),
	}

	sorted := append([]*types.Package(nil), pkgs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path() < sorted[j].Path() })

	for _, pkg := range sorted {
		n := 0
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() {
				continue
			}
			named, ok := tn.Type().(*types.Named)
			if !ok || !isClassLike(named) {
				continue
			}
			b.enqueue(named)
			n++
		}
		logger.Debug("Inspected package", zap.String("pkg", pkg.Path()), zap.Int("types", n))
	}

	if err := b.drain(); err != nil {
		return nil, err
	}
	if err := b.table.Validate(); err != nil {
		return nil, fmt.Errorf("inspecting Go types: %w", err)
	}
	return b.table, nil
}

// ClassName returns the class id used for a Go type name: the package
// path and the type name joined by a dot, or the bare name for
// predeclared types such as error.
func ClassName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func isClassLike(named *types.Named) bool {
	switch named.Underlying().(type) {
	case *types.Struct, *types.Interface:
		return true
	}
	return false
}

type builder struct {
	logger *zap.Logger
	table  *symbols.ClassTable
	queue  []*types.Named
	queued map[string]bool
	leaves map[string]int // non-named type constructors -> arity
}

func (b *builder) enqueue(named *types.Named) {
	named = named.Origin()
	name := ClassName(named.Obj())
	if b.queued[name] {
		return
	}
	b.queued[name] = true
	b.queue = append(b.queue, named)
}

func (b *builder) drain() error {
	for len(b.queue) > 0 {
		named := b.queue[0]
		b.queue = b.queue[1:]
		if err := b.table.Define(b.class(named)); err != nil {
			return fmt.Errorf("inspecting Go types: %w", err)
		}
	}

	names := make([]string, 0, len(b.leaves))
	for name := range b.leaves {
		if !b.queued[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		c := symbols.Class{Name: name}
		for i := 0; i < b.leaves[name]; i++ {
			c.TypeParams = append(c.TypeParams, fmt.Sprintf("T%d", i))
		}
		if err := b.table.Define(c); err != nil {
			return fmt.Errorf("inspecting Go types: %w", err)
		}
	}
	return nil
}

func (b *builder) class(named *types.Named) symbols.Class {
	c := symbols.Class{Name: ClassName(named.Obj())}
	if tparams := named.TypeParams(); tparams != nil {
		for i := 0; i < tparams.Len(); i++ {
			c.TypeParams = append(c.TypeParams, tparams.At(i).Obj().Name())
		}
	}

	switch u := named.Underlying().(type) {
	case *types.Interface:
		c.IsInterface = true
		for i := 0; i < u.NumEmbeddeds(); i++ {
			emb := u.EmbeddedType(i)
			if !isInterface(emb) {
				b.logger.Debug("Ignoring non-interface embedded type",
					zap.String("class", c.Name), zap.String("type", emb.String()))
				continue
			}
			c.Interfaces = append(c.Interfaces, b.mapType(emb, c.Name))
		}

	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if !f.Embedded() {
				continue
			}
			ft := f.Type()
			if ptr, ok := ft.(*types.Pointer); ok {
				ft = ptr.Elem()
			}
			switch {
			case isInterface(ft):
				c.Interfaces = append(c.Interfaces, b.mapType(ft, c.Name))
			case isStruct(ft) && c.Super == nil:
				c.Super = b.mapType(ft, c.Name)
			default:
				b.logger.Debug("Ignoring embedded field",
					zap.String("class", c.Name), zap.String("field", f.Name()))
			}
		}
	}
	return c
}

// mapType converts a Go type used in a supertype position (or as a type
// argument) to a type expression. Named types are queued for declaration.
func (b *builder) mapType(t types.Type, owner string) typesystem.Type {
	switch t := t.(type) {
	case *types.Alias:
		return b.mapType(types.Unalias(t), owner)
	case *types.TypeParam:
		return typesystem.TVar{Owner: owner, Name: t.Obj().Name()}
	case *types.Named:
		b.enqueue(t)
		con := typesystem.TCon{Name: ClassName(t.Obj())}
		targs := t.TypeArgs()
		if targs == nil || targs.Len() == 0 {
			return con
		}
		args := make([]typesystem.Type, targs.Len())
		for i := range args {
			args[i] = b.mapType(targs.At(i), owner)
		}
		return typesystem.TApp{Constructor: con, Args: args}
	case *types.Pointer:
		return b.mapType(t.Elem(), owner)
	case *types.Slice:
		return typesystem.TArray{Elem: b.mapType(t.Elem(), owner)}
	case *types.Array:
		return typesystem.TArray{Elem: b.mapType(t.Elem(), owner)}
	case *types.Map:
		return b.leafApp("map", b.mapType(t.Key(), owner), b.mapType(t.Elem(), owner))
	case *types.Chan:
		return b.leafApp("chan", b.mapType(t.Elem(), owner))
	case *types.Basic:
		return b.leaf(t.Name())
	default:
		return b.leaf(types.TypeString(t, nil))
	}
}

func (b *builder) leaf(name string) typesystem.Type {
	b.leaves[name] = 0
	return typesystem.TCon{Name: name}
}

func (b *builder) leafApp(name string, args ...typesystem.Type) typesystem.Type {
	b.leaves[name] = len(args)
	return typesystem.TApp{Constructor: typesystem.TCon{Name: name}, Args: args}
}

func isInterface(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	_, ok = named.Underlying().(*types.Interface)
	return ok
}

func isStruct(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	_, ok = named.Underlying().(*types.Struct)
	return ok
}
