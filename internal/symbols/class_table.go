// symbols/class_table.go - Class registry backing the resolver
//
// A ClassTable records the generic shape of declared classes and interfaces:
// their type parameters and their supertype expressions. Tables nest: lookups
// that miss fall through to the outer table, which by default is the prelude
// of leaf classes (Object, String, Integer, ...).

package symbols

import (
	"fmt"
	"sync"

	"github.com/funvibe/typeargs/internal/config"
	"github.com/funvibe/typeargs/internal/typesystem"
)

// Class is the declared generic shape of one class or interface.
type Class struct {
	Name        string
	IsInterface bool
	TypeParams  []string
	Super       typesystem.Type   // nil when the class has no explicit superclass
	Interfaces  []typesystem.Type // in declaration order
}

// Scope returns the type-parameter scope of the class body.
func (c *Class) Scope() typesystem.Scope {
	return typesystem.ParamScope(c.Name, c.TypeParams)
}

func (c *Class) clone() *Class {
	cp := *c
	cp.TypeParams = append([]string(nil), c.TypeParams...)
	cp.Interfaces = append([]typesystem.Type(nil), c.Interfaces...)
	return &cp
}

// ClassTable is a registry of classes. It is not safe for concurrent
// mutation; once populated it may be read from any number of goroutines.
type ClassTable struct {
	store map[string]*Class
	order []string
	outer *ClassTable
}

// Singleton prelude table containing the leaf classes
var (
	preludeTable *ClassTable
	preludeOnce  sync.Once
)

// GetPrelude returns the shared table of built-in leaf classes.
func GetPrelude() *ClassTable {
	preludeOnce.Do(func() {
		preludeTable = NewEmptyClassTable()
		for _, name := range config.LeafClasses {
			// Leaf classes are distinct and parameterless; Define cannot fail.
			_ = preludeTable.Define(Class{Name: name})
		}
	})
	return preludeTable
}

// NewEmptyClassTable creates a table with no outer scope.
func NewEmptyClassTable() *ClassTable {
	return &ClassTable{store: make(map[string]*Class)}
}

// NewClassTable creates a table that inherits the prelude.
func NewClassTable() *ClassTable {
	return NewEnclosedClassTable(GetPrelude())
}

// NewEnclosedClassTable creates a table whose lookups fall back to outer.
func NewEnclosedClassTable(outer *ClassTable) *ClassTable {
	st := NewEmptyClassTable()
	st.outer = outer
	return st
}

// Outer returns the enclosing table, or nil.
func (s *ClassTable) Outer() *ClassTable {
	return s.outer
}

// Define registers a class in this table. A class may shadow one of the
// same name in an outer table but not one defined in this table.
func (s *ClassTable) Define(c Class) error {
	if c.Name == "" {
		return fmt.Errorf("class name is required")
	}
	if _, exists := s.store[c.Name]; exists {
		return NewDuplicateClassError(c.Name)
	}
	if c.IsInterface && c.Super != nil {
		return fmt.Errorf("interface %s cannot extend a class (use interfaces instead)", c.Name)
	}
	seen := make(map[string]bool, len(c.TypeParams))
	for _, p := range c.TypeParams {
		if p == "" {
			return fmt.Errorf("class %s: empty type parameter name", c.Name)
		}
		if seen[p] {
			return fmt.Errorf("class %s: duplicate type parameter %s", c.Name, p)
		}
		seen[p] = true
	}
	s.store[c.Name] = c.clone()
	s.order = append(s.order, c.Name)
	return nil
}

// Find looks up a class in this table or any outer table.
// The returned class must not be modified.
func (s *ClassTable) Find(name string) (*Class, bool) {
	if c, ok := s.store[name]; ok {
		return c, true
	}
	if s.outer != nil {
		return s.outer.Find(name)
	}
	return nil, false
}

// IsDefined reports whether the class is defined in this table (ignoring outer tables).
func (s *ClassTable) IsDefined(name string) bool {
	_, ok := s.store[name]
	return ok
}

// Names returns the classes defined in this table, in definition order.
func (s *ClassTable) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of classes defined in this table.
func (s *ClassTable) Len() int {
	return len(s.order)
}

// ClassKind implements typesystem.KindEnv.
func (s *ClassTable) ClassKind(name string) (typesystem.Kind, bool) {
	c, ok := s.Find(name)
	if !ok {
		return nil, false
	}
	return typesystem.ClassKind(len(c.TypeParams)), true
}

func (s *ClassTable) lookup(id string) (*Class, error) {
	c, ok := s.Find(id)
	if !ok {
		return nil, typesystem.NewClassNotFoundError(id)
	}
	return c, nil
}

// DeclaredTypeParameters returns the class's type parameter names in order.
func (s *ClassTable) DeclaredTypeParameters(id string) ([]string, error) {
	c, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), c.TypeParams...), nil
}

// SuperclassExpression returns the extends clause of the class, if any.
func (s *ClassTable) SuperclassExpression(id string) (typesystem.Type, bool, error) {
	c, err := s.lookup(id)
	if err != nil {
		return nil, false, err
	}
	return c.Super, c.Super != nil, nil
}

// InterfaceExpressions returns the implements (or, for interfaces, extends)
// clauses of the class in declaration order.
func (s *ClassTable) InterfaceExpressions(id string) ([]typesystem.Type, error) {
	c, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]typesystem.Type(nil), c.Interfaces...), nil
}

// IsInterface reports whether the class is an interface.
func (s *ClassTable) IsInterface(id string) (bool, error) {
	c, err := s.lookup(id)
	if err != nil {
		return false, err
	}
	return c.IsInterface, nil
}
