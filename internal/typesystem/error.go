package typesystem

import "fmt"

// ClassNotFoundError indicates a type expression names an unknown class
type ClassNotFoundError struct {
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class not found: %s", e.Name)
}

func NewClassNotFoundError(name string) *ClassNotFoundError {
	return &ClassNotFoundError{Name: name}
}

// ArityError indicates a parameterized use with the wrong number of arguments
type ArityError struct {
	Class string
	Want  int
	Got   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %d type argument(s), got %d", e.Class, e.Want, e.Got)
}

func NewArityError(class string, want, got int) *ArityError {
	return &ArityError{Class: class, Want: want, Got: got}
}

// SyntaxError reports a malformed textual type expression
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid type %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}
