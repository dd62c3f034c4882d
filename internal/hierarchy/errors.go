package hierarchy

import (
	"errors"
	"fmt"

	"github.com/funvibe/typeargs/internal/typesystem"
)

// ErrNotFound is returned when the target is not an ancestor of the root.
var ErrNotFound = errors.New("target is not an ancestor of root")

// MalformedSupertypeError reports a supertype expression that does not name
// a class (a variable, array or wildcard).
type MalformedSupertypeError struct {
	Class string
	Expr  typesystem.Type
}

func (e *MalformedSupertypeError) Error() string {
	return fmt.Sprintf("class %s: supertype %s is not a class reference", e.Class, e.Expr)
}

func NewMalformedSupertypeError(class string, expr typesystem.Type) *MalformedSupertypeError {
	return &MalformedSupertypeError{Class: class, Expr: expr}
}
