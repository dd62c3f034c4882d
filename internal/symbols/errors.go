package symbols

import (
	"fmt"
	"strings"
)

// DuplicateClassError indicates a class was defined twice in one table
type DuplicateClassError struct {
	Name string
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("class already defined: %s", e.Name)
}

func NewDuplicateClassError(name string) *DuplicateClassError {
	return &DuplicateClassError{Name: name}
}

// InheritanceCycleError reports a class that is its own ancestor
type InheritanceCycleError struct {
	Cycle []string
}

func (e *InheritanceCycleError) Error() string {
	return fmt.Sprintf("inheritance cycle: %s", strings.Join(e.Cycle, " -> "))
}

func NewInheritanceCycleError(cycle []string) *InheritanceCycleError {
	return &InheritanceCycleError{Cycle: cycle}
}
