package symbols

import (
	"fmt"
	"slices"

	"github.com/funvibe/typeargs/internal/typesystem"
)

// Validate checks every class defined in this table. Supertype expressions
// must name known classes with the declared number of type arguments,
// reference only the declaring class's own type parameters, and respect
// class/interface roles. The hierarchy must be acyclic.
func (s *ClassTable) Validate() error {
	for _, name := range s.order {
		if err := s.validateClass(s.store[name]); err != nil {
			return err
		}
	}
	return s.checkCycles()
}

func (s *ClassTable) validateClass(c *Class) error {
	if c.Super != nil {
		if err := s.validateSupertype(c, c.Super, false); err != nil {
			return fmt.Errorf("class %s extends %s: %w", c.Name, c.Super, err)
		}
	}
	verb := "implements"
	if c.IsInterface {
		verb = "extends"
	}
	for _, iface := range c.Interfaces {
		if err := s.validateSupertype(c, iface, true); err != nil {
			return fmt.Errorf("class %s %s %s: %w", c.Name, verb, iface, err)
		}
	}
	return nil
}

func (s *ClassTable) validateSupertype(c *Class, t typesystem.Type, wantInterface bool) error {
	name, _, ok := typesystem.ClassName(t)
	if !ok {
		return fmt.Errorf("supertype must be a class reference")
	}
	if _, err := typesystem.KindCheck(t, s); err != nil {
		return err
	}
	target, _ := s.Find(name)
	if target.IsInterface != wantInterface {
		if wantInterface {
			return fmt.Errorf("%s is not an interface", name)
		}
		return fmt.Errorf("%s is an interface", name)
	}
	for _, v := range t.FreeTypeVariables() {
		if v.Owner != c.Name || !slices.Contains(c.TypeParams, v.Name) {
			return fmt.Errorf("type variable %s is not declared by %s", v.Qualified(), c.Name)
		}
	}
	return nil
}

// Supertypes returns the superclass expression (if any) followed by the
// interface expressions, in declaration order.
func (c *Class) Supertypes() []typesystem.Type {
	var sups []typesystem.Type
	if c.Super != nil {
		sups = append(sups, c.Super)
	}
	return append(sups, c.Interfaces...)
}

func (s *ClassTable) checkCycles() error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int)
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case inProgress:
			idx := slices.Index(stack, name)
			cycle := append(append([]string(nil), stack[idx:]...), name)
			return NewInheritanceCycleError(cycle)
		case done:
			return nil
		}
		state[name] = inProgress
		stack = append(stack, name)
		if c, ok := s.Find(name); ok {
			for _, sup := range c.Supertypes() {
				if n, _, ok := typesystem.ClassName(sup); ok {
					if err := visit(n); err != nil {
						return err
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range s.order {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
