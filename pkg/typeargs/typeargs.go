// Package typeargs is the public API for resolving the type arguments a
// class binds for the type parameters of its generic ancestors.
package typeargs

import (
	"context"

	"github.com/funvibe/typeargs/internal/goinspect"
	"github.com/funvibe/typeargs/internal/hierarchy"
	"github.com/funvibe/typeargs/internal/resolver"
	"github.com/funvibe/typeargs/internal/schema"
	"github.com/funvibe/typeargs/internal/symbols"
	"github.com/funvibe/typeargs/internal/typesystem"
)

// Type expression aliases
type Type = typesystem.Type
type TCon = typesystem.TCon
type TVar = typesystem.TVar
type TApp = typesystem.TApp
type TArray = typesystem.TArray
type TWildcard = typesystem.TWildcard
type Subst = typesystem.Subst
type Scope = typesystem.Scope

// Class metadata
type Class = symbols.Class
type ClassTable = symbols.ClassTable
type Introspector = hierarchy.Introspector

// Resolution
type Resolver = resolver.Resolver
type Option = resolver.Option
type CacheStats = resolver.CacheStats
type ResolveError = resolver.ResolveError
type UnknownParameterError = resolver.UnknownParameterError
type ClassNotFoundError = typesystem.ClassNotFoundError

// Re-export error kinds
var (
	ErrInvalidIndex = resolver.ErrInvalidIndex
	ErrNotRelated   = resolver.ErrNotRelated
	ErrNoData       = resolver.ErrNoData
	ErrUnresolved   = resolver.ErrUnresolved
)

var (
	WithLogger = resolver.WithLogger
	WithCache  = resolver.WithCache
)

// New creates a resolver over any class metadata source.
func New(intro Introspector, opts ...Option) *Resolver {
	return resolver.New(intro, opts...)
}

// NewClassTable creates an empty table that sees the built-in leaf classes.
func NewClassTable() *ClassTable {
	return symbols.NewClassTable()
}

// ParamScope returns the scope in which a class's own parameters parse
// as type variables.
func ParamScope(owner string, params ...string) Scope {
	return typesystem.ParamScope(owner, params)
}

// Parse reads a textual type expression such as "Map<String, List<T>>".
func Parse(input string, scope Scope) (Type, error) {
	return typesystem.Parse(input, scope)
}

// LoadSchema reads a typeargs.yaml file into a validated class table.
func LoadSchema(path string) (*ClassTable, error) {
	return schema.Load(path)
}

// LoadGo builds a class table from the Go packages matching patterns.
func LoadGo(ctx context.Context, patterns ...string) (*ClassTable, error) {
	return goinspect.Load(ctx, patterns...)
}
