package hierarchy

import (
	"github.com/funvibe/typeargs/internal/typesystem"
)

// Compose folds the bindings supplied along a path into one substitution,
// valid relative to the path's root.
//
// Edges are processed root to target. For an edge A -> B<args>, each
// B.param[i] is bound to args[i] with every variable that an earlier edge
// already bound replaced by its binding. Variables with no binding (the
// root's own parameters, or parameters of a class reached through a raw
// edge) are kept as-is. A raw edge binds nothing for B. A path visits each
// class once, so a binding never mentions a variable bound later.
func Compose(path Path) typesystem.Subst {
	subst := typesystem.Subst{}
	for _, e := range path {
		n := min(len(e.Args), len(e.To.TypeParams))
		for i := 0; i < n; i++ {
			key := typesystem.VarKey{Owner: e.To.ID, Name: e.To.TypeParams[i]}
			subst[key] = bind(e.Args[i], subst)
		}
	}
	return subst
}

func bind(arg typesystem.Type, subst typesystem.Subst) typesystem.Type {
	if typesystem.IsResolved(arg) {
		return arg
	}
	return arg.Apply(subst)
}
