// Package resolver determines the concrete types bound to the type
// parameters of generic ancestors.
//
// Given a root class and an ancestor (target) that declares type
// parameters, the resolver finds the inheritance path from root to target,
// composes the type arguments supplied along it, and reports what each of
// the target's parameters is bound to when seen from root. Results that
// are still type variables are returned as values: they mean the
// parameter is generic-but-unbound at root.
package resolver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/funvibe/typeargs/internal/config"
	"github.com/funvibe/typeargs/internal/hierarchy"
	"github.com/funvibe/typeargs/internal/typesystem"
)

// Resolver is safe for concurrent use.
type Resolver struct {
	graph  *hierarchy.Graph
	logger *zap.Logger
	cache  *substCache // nil when caching is disabled
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug tracing of resolutions.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCache enables or disables memoization of composed substitutions.
// Caching is on by default.
func WithCache(enabled bool) Option {
	return func(r *Resolver) {
		if enabled {
			r.cache = &substCache{}
		} else {
			r.cache = nil
		}
	}
}

// New creates a resolver over the given class metadata.
func New(intro hierarchy.Introspector, opts ...Option) *Resolver {
	r := &Resolver{
		graph:  hierarchy.NewGraph(intro),
		logger: zap.NewNop(),
		cache:  &substCache{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Graph returns the class graph the resolver walks.
func (r *Resolver) Graph() *hierarchy.Graph {
	return r.graph
}

// CacheStats reports cache hits and misses. The zero value is returned
// when caching is disabled.
func (r *Resolver) CacheStats() CacheStats {
	if r.cache == nil {
		return CacheStats{}
	}
	return r.cache.stats()
}

// ResolveTypeArgument returns the type bound to target's type parameter at
// index, as seen from root. The result may be a type variable (or contain
// one) when the parameter is not fixed by root's hierarchy; resolving a
// class against itself yields its own parameter. An unrelated pair is
// ErrNotRelated whatever the index.
func (r *Resolver) ResolveTypeArgument(root, target string, index int) (typesystem.Type, error) {
	rootNode, targetNode, err := r.load(root, target)
	if err != nil {
		return nil, err
	}
	subst, err := r.substitution(rootNode, targetNode)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(targetNode.TypeParams) {
		return nil, newResolveError(ErrInvalidIndex, root, target, index,
			fmt.Errorf("%s declares %d type parameter(s)", target, len(targetNode.TypeParams)))
	}
	return r.lookup(subst, rootNode, targetNode, index)
}

// ResolveAllTypeArguments resolves every type parameter of target, in
// declaration order.
func (r *Resolver) ResolveAllTypeArguments(root, target string) ([]typesystem.Type, error) {
	rootNode, targetNode, err := r.load(root, target)
	if err != nil {
		return nil, err
	}
	subst, err := r.substitution(rootNode, targetNode)
	if err != nil {
		return nil, err
	}
	out := make([]typesystem.Type, len(targetNode.TypeParams))
	for i := range targetNode.TypeParams {
		t, err := r.lookup(subst, rootNode, targetNode, i)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// Substitution returns all bindings composed along the path from root to
// target. With caching enabled, repeated calls return the same map, which
// callers must not modify.
func (r *Resolver) Substitution(root, target string) (typesystem.Subst, error) {
	rootNode, targetNode, err := r.load(root, target)
	if err != nil {
		return nil, err
	}
	return r.substitution(rootNode, targetNode)
}

// ResolveActualType rewrites every type variable in t with its binding as
// seen from context. Variables may belong to context or any of its
// ancestors; e.g. a field declared as List<T> in A resolves to
// List<String> for a class extending A<String>.
func (r *Resolver) ResolveActualType(context string, t typesystem.Type) (typesystem.Type, error) {
	return typesystem.ReplaceVarsErr(t, func(v typesystem.TVar) (typesystem.Type, error) {
		owner, err := r.graph.Node(v.Owner)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", v.Qualified(), err)
		}
		idx := owner.ParamIndex(v.Name)
		if idx < 0 {
			return nil, NewUnknownParameterError(v.Owner, v.Name)
		}
		return r.ResolveTypeArgument(context, v.Owner, idx)
	})
}

// RawClass erases t, as seen from context, to the class it denotes:
// parameterized types lose their arguments, arrays keep their suffix and
// wildcards erase to their bound. A variable that stays unbound at
// context is an ErrUnresolved failure.
func (r *Resolver) RawClass(context string, t typesystem.Type) (string, error) {
	switch typ := t.(type) {
	case typesystem.TCon:
		return typ.Name, nil
	case typesystem.TApp:
		return typ.Constructor.Name, nil
	case typesystem.TArray:
		elem, err := r.RawClass(context, typ.Elem)
		if err != nil {
			return "", err
		}
		return elem + config.ArraySuffix, nil
	case typesystem.TWildcard:
		if typ.Upper == nil {
			return config.TopClass, nil
		}
		return r.RawClass(context, typ.Upper)
	case typesystem.TVar:
		resolved, err := r.ResolveActualType(context, typ)
		if err != nil {
			return "", err
		}
		if v, ok := resolved.(typesystem.TVar); ok {
			return "", newResolveError(ErrUnresolved, context, v.Owner, -1,
				fmt.Errorf("%s is unbound", v.Qualified()))
		}
		return r.RawClass(context, resolved)
	default:
		return "", fmt.Errorf("cannot erase type %T", t)
	}
}

// IsAncestor reports whether target is root itself or one of its
// (transitive) superclasses or interfaces.
func (r *Resolver) IsAncestor(root, target string) (bool, error) {
	rootNode, targetNode, err := r.load(root, target)
	if err != nil {
		return false, err
	}
	if _, err := r.graph.FindPath(rootNode, targetNode); err != nil {
		if errors.Is(err, hierarchy.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Resolver) load(root, target string) (*hierarchy.ClassNode, *hierarchy.ClassNode, error) {
	rootNode, err := r.graph.Node(root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %s against %s: %w", target, root, err)
	}
	targetNode, err := r.graph.Node(target)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving %s against %s: %w", target, root, err)
	}
	return rootNode, targetNode, nil
}

func (r *Resolver) substitution(root, target *hierarchy.ClassNode) (typesystem.Subst, error) {
	compute := func() (typesystem.Subst, error) {
		path, err := r.graph.FindPath(root, target)
		if err != nil {
			if errors.Is(err, hierarchy.ErrNotFound) {
				return nil, newResolveError(ErrNotRelated, root.ID, target.ID, -1, err)
			}
			return nil, fmt.Errorf("resolving %s against %s: %w", target.ID, root.ID, err)
		}
		r.logger.Debug("Composed inheritance path",
			zap.String("root", root.ID),
			zap.String("target", target.ID),
			zap.Stringer("path", path))
		return hierarchy.Compose(path), nil
	}
	if r.cache == nil {
		return compute()
	}
	return r.cache.get(cacheKey{root: root.ID, target: target.ID}, compute)
}

func (r *Resolver) lookup(subst typesystem.Subst, root, target *hierarchy.ClassNode, index int) (typesystem.Type, error) {
	param := target.TypeParams[index]
	if root.ID == target.ID {
		return typesystem.TVar{Owner: target.ID, Name: param}, nil
	}
	t, ok := subst.Lookup(target.ID, param)
	if !ok {
		return nil, newResolveError(ErrNoData, root.ID, target.ID, index,
			fmt.Errorf("%s is used raw on the path from %s", target.ID, root.ID))
	}
	return t, nil
}
