// Package schema loads class hierarchies declared in typeargs.yaml.
//
// A schema lists classes and interfaces with their type parameters and
// supertype clauses written in the textual type syntax:
//
//	classes:
//	  - name: A
//	    params: [T]
//	  - name: B
//	    extends: A<String>
//	  - name: I1
//	    interface: true
//	    params: [T]
//	  - name: C
//	    implements: [I1<Integer>]
//
// Loading validates the whole hierarchy (references, arities, cycles) and
// produces a symbols.ClassTable ready for the resolver.
package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/typeargs/internal/config"
	"github.com/funvibe/typeargs/internal/symbols"
	"github.com/funvibe/typeargs/internal/typesystem"
)

// Schema represents the top-level typeargs.yaml document.
type Schema struct {
	// AutoDeclare makes the built-in leaf classes (Object, String,
	// Integer, ...) visible without declaring them. Defaults to true.
	AutoDeclare *bool `yaml:"auto_declare,omitempty"`

	// Classes lists the declared classes and interfaces. Order matters
	// only for listing; supertypes may reference classes declared later.
	Classes []ClassSpec `yaml:"classes"`

	table *symbols.ClassTable
}

// ClassSpec declares one class or interface.
type ClassSpec struct {
	Name string `yaml:"name"`

	// Params are the declared type parameter names, in order.
	Params []string `yaml:"params,omitempty"`

	Interface bool `yaml:"interface,omitempty"`

	// Extends is the superclass expression. Not allowed on interfaces;
	// an interface lists its super-interfaces under implements.
	Extends string `yaml:"extends,omitempty"`

	Implements []string `yaml:"implements,omitempty"`
}

// Load reads typeargs.yaml at path and returns its class table.
func Load(path string) (*symbols.ClassTable, error) {
	s, err := LoadSchema(path)
	if err != nil {
		return nil, err
	}
	return s.Table(), nil
}

// LoadSchema reads and parses a typeargs.yaml file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}
	return ParseSchema(data, path)
}

// ParseSchema parses typeargs.yaml content from bytes.
// The path argument is used only for error messages.
func ParseSchema(data []byte, path string) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.setDefaults()
	if err := s.validate(path); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSchema searches for typeargs.yaml starting from dir and walking up
// to parent directories. It returns "" and a nil error when no schema is
// found.
func FindSchema(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range config.SchemaFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Table returns the validated class table built from the schema.
func (s *Schema) Table() *symbols.ClassTable {
	return s.table
}

// AutoDeclared reports whether leaf classes are implicitly declared.
func (s *Schema) AutoDeclared() bool {
	return s.AutoDeclare == nil || *s.AutoDeclare
}

func (s *Schema) setDefaults() {
	if s.AutoDeclare == nil {
		on := true
		s.AutoDeclare = &on
	}
}

// validate builds the class table, checking each declaration and then
// the hierarchy as a whole.
func (s *Schema) validate(path string) error {
	if len(s.Classes) == 0 {
		return fmt.Errorf("%s: no classes defined", path)
	}

	table := symbols.NewEmptyClassTable()
	if s.AutoDeclared() {
		table = symbols.NewClassTable()
	}

	for i, spec := range s.Classes {
		if spec.Name == "" {
			return fmt.Errorf("%s: classes[%d]: name is required", path, i)
		}
		if spec.Interface && spec.Extends != "" {
			return fmt.Errorf("%s: classes[%d] (%s): interfaces cannot use extends, list super-interfaces under implements",
				path, i, spec.Name)
		}
		c, err := spec.class()
		if err != nil {
			return fmt.Errorf("%s: classes[%d] (%s): %w", path, i, spec.Name, err)
		}
		if err := table.Define(c); err != nil {
			return fmt.Errorf("%s: classes[%d]: %w", path, i, err)
		}
	}

	if err := table.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	s.table = table
	return nil
}

func (spec ClassSpec) class() (symbols.Class, error) {
	c := symbols.Class{
		Name:        spec.Name,
		IsInterface: spec.Interface,
		TypeParams:  spec.Params,
	}
	scope := c.Scope()
	if spec.Extends != "" {
		super, err := typesystem.Parse(spec.Extends, scope)
		if err != nil {
			return c, fmt.Errorf("extends: %w", err)
		}
		c.Super = super
	}
	for j, src := range spec.Implements {
		iface, err := typesystem.Parse(src, scope)
		if err != nil {
			return c, fmt.Errorf("implements[%d]: %w", j, err)
		}
		c.Interfaces = append(c.Interfaces, iface)
	}
	return c, nil
}

// FromTable describes the classes defined in table (outer tables
// excluded) as a schema document.
func FromTable(table *symbols.ClassTable) *Schema {
	s := &Schema{}
	outer := table.Outer()
	on := outer != nil && outer == symbols.GetPrelude()
	s.AutoDeclare = &on

	for _, name := range table.Names() {
		c, _ := table.Find(name)
		spec := ClassSpec{
			Name:      c.Name,
			Params:    append([]string(nil), c.TypeParams...),
			Interface: c.IsInterface,
		}
		if c.Super != nil {
			spec.Extends = c.Super.String()
		}
		for _, iface := range c.Interfaces {
			spec.Implements = append(spec.Implements, iface.String())
		}
		s.Classes = append(s.Classes, spec)
	}
	s.table = table
	return s
}

// Marshal encodes the schema as YAML. Class names that the type syntax
// cannot spell (such as Go composite types) do not survive a reload.
func (s *Schema) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding schema: %w", err)
	}
	return data, nil
}
