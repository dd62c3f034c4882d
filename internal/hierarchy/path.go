package hierarchy

import (
	"strings"

	"github.com/funvibe/typeargs/internal/typesystem"
)

// Edge is one extends/implements usage site: From declares To as a
// supertype, supplying Args for To's type parameters. Args is empty for a
// raw use.
type Edge struct {
	From *ClassNode
	To   *ClassNode
	Args []typesystem.Type
}

func (e Edge) String() string {
	if len(e.Args) == 0 {
		return e.From.ID + " -> " + e.To.ID
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.From.ID + " -> " + e.To.ID + "<" + strings.Join(args, ", ") + ">"
}

// Path is an ordered list of edges from a root to a target ancestor.
// The empty path relates a class to itself.
type Path []Edge

func (p Path) String() string {
	if len(p) == 0 {
		return "(identity)"
	}
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
