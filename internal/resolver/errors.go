package resolver

import (
	"errors"
	"fmt"
)

// Error kinds reported by the resolver. Test with errors.Is.
var (
	// ErrInvalidIndex: the index is negative or not below the target's
	// declared type-parameter count.
	ErrInvalidIndex = errors.New("type argument index out of range")

	// ErrNotRelated: the target is not reachable from the root through
	// the class/interface graph.
	ErrNotRelated = errors.New("root does not extend or implement target")

	// ErrNoData: an edge on the path used the target raw, so the slot
	// has no recorded binding.
	ErrNoData = errors.New("no type argument recorded (raw supertype)")

	// ErrUnresolved: the binding is still a type variable relative to the
	// root. ResolveTypeArgument returns such variables as values; only
	// operations that need a concrete class report this error.
	ErrUnresolved = errors.New("type argument is unresolved")
)

// ResolveError describes a failed resolution.
type ResolveError struct {
	Kind   error // one of the Err* sentinels
	Root   string
	Target string
	Index  int // -1 when not applicable
	Err    error
}

func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("resolving %s against %s", e.Target, e.Root)
	if e.Index >= 0 {
		msg = fmt.Sprintf("resolving %s[%d] against %s", e.Target, e.Index, e.Root)
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil && e.Err != e.Kind {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the error's kind.
func (e *ResolveError) Is(target error) bool {
	return target == e.Kind
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

func newResolveError(kind error, root, target string, index int, cause error) *ResolveError {
	return &ResolveError{Kind: kind, Root: root, Target: target, Index: index, Err: cause}
}

// UnknownParameterError reports a type variable that its owner does not declare
type UnknownParameterError struct {
	Owner string
	Name  string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("%s declares no type parameter %s", e.Owner, e.Name)
}

func NewUnknownParameterError(owner, name string) *UnknownParameterError {
	return &UnknownParameterError{Owner: owner, Name: name}
}
