package typesystem

import "fmt"

// Kind represents the "type of a type".
// * (Star) is the kind of proper types (String, List<String>).
// * -> * is the kind of a class with one type parameter (List).
type Kind interface {
	String() string
	Equal(Kind) bool
}

// KStar represents the kind of a proper type (*).
type KStar struct{}

func (k KStar) String() string { return "*" }
func (k KStar) Equal(other Kind) bool {
	_, ok := other.(KStar)
	return ok
}

// KArrow represents a type constructor (k1 -> k2).
type KArrow struct {
	Left  Kind
	Right Kind
}

func (k KArrow) String() string {
	return fmt.Sprintf("(%s -> %s)", k.Left.String(), k.Right.String())
}

func (k KArrow) Equal(other Kind) bool {
	o, ok := other.(KArrow)
	if !ok {
		return false
	}
	return k.Left.Equal(o.Left) && k.Right.Equal(o.Right)
}

var Star Kind = KStar{}

// MakeArrow creates an N-ary arrow, e.g. MakeArrow(*, *, *) is * -> * -> *.
func MakeArrow(args ...Kind) Kind {
	if len(args) == 0 {
		return Star
	}
	if len(args) == 1 {
		return args[0]
	}
	return KArrow{Left: args[0], Right: MakeArrow(args[1:]...)}
}

// ClassKind returns the kind of a class declaring arity type parameters.
func ClassKind(arity int) Kind {
	args := make([]Kind, arity+1)
	for i := range args {
		args[i] = Star
	}
	return MakeArrow(args...)
}

// Arity returns the number of arguments a kind accepts before becoming *.
func Arity(k Kind) int {
	n := 0
	for {
		arrow, ok := k.(KArrow)
		if !ok {
			return n
		}
		n++
		k = arrow.Right
	}
}
