package typesystem

import (
	"fmt"
	"strings"

	"github.com/funvibe/typeargs/internal/config"
)

// Type is the interface for all type expressions in the class graph.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
}

// VarKey identifies a type parameter by its declaring class.
// Parameter names alone are not unique across a hierarchy.
type VarKey struct {
	Owner string
	Name  string
}

func (k VarKey) String() string {
	return k.Owner + "." + k.Name
}

// TVar represents a type variable declared by a class (e.g. T of List<T>).
type TVar struct {
	Owner string
	Name  string
}

func (t TVar) String() string {
	return t.Name
}

// Qualified returns the variable name prefixed by its owner (e.g. "List.T").
func (t TVar) Qualified() string {
	return t.Key().String()
}

// Key returns the substitution key for this variable.
func (t TVar) Key() VarKey {
	return VarKey{Owner: t.Owner, Name: t.Name}
}

func (t TVar) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[VarKey]bool))
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// ApplyWithCycleCheck applies a substitution, following chains of bound
// variables. A variable already being expanded is returned as-is.
func ApplyWithCycleCheck(t Type, s Subst, visited map[VarKey]bool) Type {
	if t == nil {
		return nil
	}

	switch typ := t.(type) {
	case TVar:
		key := typ.Key()
		if visited[key] {
			return typ
		}
		replacement, ok := s[key]
		if !ok {
			return typ
		}
		if tv, ok := replacement.(TVar); ok && tv.Key() == key {
			return typ
		}
		newVisited := copyVisited(visited)
		newVisited[key] = true
		return ApplyWithCycleCheck(replacement, s, newVisited)

	case TApp:
		newArgs := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			newArgs[i] = ApplyWithCycleCheck(arg, s, visited)
		}
		return TApp{Constructor: typ.Constructor, Args: newArgs}

	case TArray:
		return TArray{Elem: ApplyWithCycleCheck(typ.Elem, s, visited)}

	case TWildcard:
		if typ.Upper == nil {
			return typ
		}
		return TWildcard{Upper: ApplyWithCycleCheck(typ.Upper, s, visited)}

	case TCon:
		return typ

	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[VarKey]bool) map[VarKey]bool {
	newMap := make(map[VarKey]bool, len(m)+1)
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

// TCon represents a concrete class reference, or the raw use of a generic
// class (e.g. String, List).
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }

func (t TCon) Apply(s Subst) Type { return t }

func (t TCon) FreeTypeVariables() []TVar {
	return []TVar{}
}

// TApp represents a parameterized class (e.g. Map<String, List<T>>).
type TApp struct {
	Constructor TCon
	Args        []Type
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Constructor.String()
	}
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.Name, strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[VarKey]bool))
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TArray represents an array of a component type (e.g. T[]).
type TArray struct {
	Elem Type
}

func (t TArray) String() string {
	return t.Elem.String() + config.ArraySuffix
}

func (t TArray) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[VarKey]bool))
}

func (t TArray) FreeTypeVariables() []TVar {
	return t.Elem.FreeTypeVariables()
}

// TWildcard represents a wildcard argument with an optional upper bound
// (e.g. ? or ? extends Number). A nil Upper means unbounded.
type TWildcard struct {
	Upper Type
}

func (t TWildcard) String() string {
	if t.Upper == nil {
		return config.WildcardToken
	}
	return fmt.Sprintf("%s %s %s", config.WildcardToken, config.WildcardExtends, t.Upper.String())
}

func (t TWildcard) Apply(s Subst) Type {
	return ApplyWithCycleCheck(t, s, make(map[VarKey]bool))
}

func (t TWildcard) FreeTypeVariables() []TVar {
	if t.Upper == nil {
		return []TVar{}
	}
	return t.Upper.FreeTypeVariables()
}

// Subst is a mapping from scoped type variables to types.
type Subst map[VarKey]Type

// Lookup returns the binding for the given variable, if any.
func (s Subst) Lookup(owner, name string) (Type, bool) {
	t, ok := s[VarKey{Owner: owner, Name: name}]
	return t, ok
}

// IsResolved reports whether t contains no type variables.
func IsResolved(t Type) bool {
	return t != nil && len(t.FreeTypeVariables()) == 0
}

// Equal reports whether two type expressions are structurally identical.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case TCon:
		y, ok := b.(TCon)
		return ok && x.Name == y.Name
	case TVar:
		y, ok := b.(TVar)
		return ok && x.Key() == y.Key()
	case TApp:
		y, ok := b.(TApp)
		if !ok || x.Constructor.Name != y.Constructor.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case TArray:
		y, ok := b.(TArray)
		return ok && Equal(x.Elem, y.Elem)
	case TWildcard:
		y, ok := b.(TWildcard)
		return ok && Equal(x.Upper, y.Upper)
	default:
		return false
	}
}

func uniqueTVars(vars []TVar) []TVar {
	unique := []TVar{}
	seen := map[VarKey]bool{}
	for _, v := range vars {
		if !seen[v.Key()] {
			seen[v.Key()] = true
			unique = append(unique, v)
		}
	}
	return unique
}
