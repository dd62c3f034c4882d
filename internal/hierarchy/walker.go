package hierarchy

import (
	"fmt"

	"github.com/funvibe/typeargs/internal/typesystem"
)

// FindPath finds the inheritance path from root to target.
//
// For a class target only the superclass chain is followed. For an
// interface target the graph is searched depth-first, superclass edge
// first (when the current node is a class), then interfaces in declaration
// order. Each node is expanded at most once per call, and the first path
// that reaches target is returned; other routes to target are not
// explored. ErrNotFound is returned when target is not an ancestor.
func (g *Graph) FindPath(root, target *ClassNode) (Path, error) {
	if root.ID == target.ID {
		return Path{}, nil
	}
	if !target.IsInterface {
		return g.classChain(root, target)
	}

	w := &walk{g: g, target: target, visited: make(map[string]bool)}
	found, err := w.visit(root)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return w.found, nil
}

func (g *Graph) classChain(root, target *ClassNode) (Path, error) {
	var path Path
	seen := map[string]bool{root.ID: true}
	for cur := root; cur.Super != nil; {
		e, err := g.edge(cur, cur.Super)
		if err != nil {
			return nil, err
		}
		path = append(path, e)
		if e.To.ID == target.ID {
			return path, nil
		}
		if seen[e.To.ID] {
			return nil, fmt.Errorf("superclass chain of %s revisits %s", root.ID, e.To.ID)
		}
		seen[e.To.ID] = true
		cur = e.To
	}
	return nil, ErrNotFound
}

// edge resolves one supertype usage site of from.
func (g *Graph) edge(from *ClassNode, expr typesystem.Type) (Edge, error) {
	name, args, ok := typesystem.ClassName(expr)
	if !ok {
		return Edge{}, NewMalformedSupertypeError(from.ID, expr)
	}
	to, err := g.Node(name)
	if err != nil {
		return Edge{}, fmt.Errorf("supertype of %s: %w", from.ID, err)
	}
	return Edge{From: from, To: to, Args: args}, nil
}

type walk struct {
	g       *Graph
	target  *ClassNode
	visited map[string]bool
	stack   Path
	found   Path

	expanded int
}

func (w *walk) visit(n *ClassNode) (bool, error) {
	w.visited[n.ID] = true
	w.expanded++

	var sups []typesystem.Type
	if !n.IsInterface && n.Super != nil {
		sups = append(sups, n.Super)
	}
	sups = append(sups, n.Interfaces...)

	for _, expr := range sups {
		e, err := w.g.edge(n, expr)
		if err != nil {
			return false, err
		}
		w.stack = append(w.stack, e)
		if e.To.ID == w.target.ID {
			w.found = append(Path(nil), w.stack...)
			return true, nil
		}
		if !w.visited[e.To.ID] {
			found, err := w.visit(e.To)
			if err != nil || found {
				return found, err
			}
		}
		w.stack = w.stack[:len(w.stack)-1]
	}
	return false, nil
}
