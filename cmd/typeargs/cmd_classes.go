package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeargs/internal/schema"
	"github.com/funvibe/typeargs/internal/symbols"
)

// classesCmd lists the loaded classes
var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List the classes of the selected source",
	Long: `Lists every class defined by the selected source with its type
parameters and supertypes. With --yaml the listing is a typeargs.yaml
schema, which is a convenient way to turn Go packages into a schema.`,
	Args: cobra.NoArgs,
	RunE: runClasses,
}

func runClasses(cmd *cobra.Command, args []string) error {
	src, err := loadClasses(cmd.Context())
	if err != nil {
		return err
	}

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		data, err := schema.FromTable(src.table).Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	for _, name := range src.table.Names() {
		c, _ := src.table.Find(name)
		p.println(describeClass(p, c))
	}
	return nil
}

// describeClass renders a class declaration, e.g.
// "class IntList extends AbstractList<Integer> implements RandomAccess".
func describeClass(p *printer, c *symbols.Class) string {
	var sb strings.Builder
	kind := "class"
	if c.IsInterface {
		kind = "interface"
	}
	sb.WriteString(p.paint(ansiDim, kind))
	sb.WriteString(" ")
	sb.WriteString(p.paint(ansiCyan, c.Name))
	if len(c.TypeParams) > 0 {
		sb.WriteString("<" + strings.Join(c.TypeParams, ", ") + ">")
	}
	if c.Super != nil {
		sb.WriteString(" extends " + c.Super.String())
	}
	if len(c.Interfaces) > 0 {
		verb := " implements "
		if c.IsInterface {
			verb = " extends "
		}
		names := make([]string, len(c.Interfaces))
		for i, iface := range c.Interfaces {
			names[i] = iface.String()
		}
		sb.WriteString(verb + strings.Join(names, ", "))
	}
	return sb.String()
}
