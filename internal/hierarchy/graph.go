// Package hierarchy walks class/interface inheritance graphs and composes
// the type-argument bindings found along the way.
//
// Class metadata comes from an Introspector. A Graph loads each ClassNode
// once and shares it between all walks; nodes are immutable.
package hierarchy

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/funvibe/typeargs/internal/typesystem"
)

// Introspector supplies the per-class facts the resolver needs.
type Introspector interface {
	DeclaredTypeParameters(id string) ([]string, error)
	SuperclassExpression(id string) (typesystem.Type, bool, error)
	InterfaceExpressions(id string) ([]typesystem.Type, error)
	IsInterface(id string) (bool, error)
}

// ClassNode captures one class or interface's generic shape.
type ClassNode struct {
	ID          string
	IsInterface bool
	TypeParams  []string
	Super       typesystem.Type // nil when absent
	Interfaces  []typesystem.Type
}

// ParamIndex returns the position of a declared type parameter, or -1.
func (n *ClassNode) ParamIndex(name string) int {
	for i, p := range n.TypeParams {
		if p == name {
			return i
		}
	}
	return -1
}

func (n *ClassNode) String() string {
	return n.ID
}

// Graph memoizes ClassNodes loaded from an Introspector. It is safe for
// concurrent use; each node is introspected at most once.
type Graph struct {
	intro Introspector
	nodes sync.Map // string -> *ClassNode
	group singleflight.Group
}

// NewGraph creates a graph over the given introspector.
func NewGraph(intro Introspector) *Graph {
	return &Graph{intro: intro}
}

// Node returns the ClassNode for id, introspecting it on first use.
func (g *Graph) Node(id string) (*ClassNode, error) {
	if n, ok := g.nodes.Load(id); ok {
		return n.(*ClassNode), nil
	}
	v, err, _ := g.group.Do(id, func() (interface{}, error) {
		if n, ok := g.nodes.Load(id); ok {
			return n, nil
		}
		n, err := g.introspect(id)
		if err != nil {
			return nil, err
		}
		g.nodes.Store(id, n)
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ClassNode), nil
}

func (g *Graph) introspect(id string) (*ClassNode, error) {
	params, err := g.intro.DeclaredTypeParameters(id)
	if err != nil {
		return nil, fmt.Errorf("introspecting %s: %w", id, err)
	}
	super, hasSuper, err := g.intro.SuperclassExpression(id)
	if err != nil {
		return nil, fmt.Errorf("introspecting %s: %w", id, err)
	}
	ifaces, err := g.intro.InterfaceExpressions(id)
	if err != nil {
		return nil, fmt.Errorf("introspecting %s: %w", id, err)
	}
	isIface, err := g.intro.IsInterface(id)
	if err != nil {
		return nil, fmt.Errorf("introspecting %s: %w", id, err)
	}
	n := &ClassNode{
		ID:          id,
		IsInterface: isIface,
		TypeParams:  params,
		Interfaces:  ifaces,
	}
	if hasSuper {
		n.Super = super
	}
	return n, nil
}
