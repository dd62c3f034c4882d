package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/funvibe/typeargs/internal/hierarchy"
	"github.com/funvibe/typeargs/internal/typesystem"
)

// resolveCmd resolves one type argument
var resolveCmd = &cobra.Command{
	Use:   "resolve ROOT TARGET INDEX",
	Short: "Resolve one type parameter of TARGET as seen from ROOT",
	Long: `Prints the type bound to TARGET's INDEX-th type parameter (0-based)
by ROOT's hierarchy. A result that still mentions a type variable means the
parameter is not fixed at ROOT.

Example:
  typeargs resolve IntList AbstractList 0`,
	Args: cobra.ExactArgs(3),
	RunE: runResolve,
}

// resolveAllCmd resolves every type argument
var resolveAllCmd = &cobra.Command{
	Use:   "resolve-all ROOT TARGET",
	Short: "Resolve every type parameter of TARGET as seen from ROOT",
	Args:  cobra.ExactArgs(2),
	RunE:  runResolveAll,
}

// actualCmd rewrites a type expression
var actualCmd = &cobra.Command{
	Use:   "actual CONTEXT OWNER TYPE",
	Short: "Rewrite a type written inside OWNER as seen from CONTEXT",
	Long: `Parses TYPE with OWNER's type parameters in scope and replaces every
type variable by its binding as seen from CONTEXT.

Example:
  typeargs actual IntList AbstractList "Iterator<E>"`,
	Args: cobra.ExactArgs(3),
	RunE: runActual,
}

// rawCmd erases a type expression
var rawCmd = &cobra.Command{
	Use:   "raw CONTEXT OWNER TYPE",
	Short: "Print the raw class a type written inside OWNER denotes at CONTEXT",
	Args:  cobra.ExactArgs(3),
	RunE:  runRaw,
}

// pathCmd shows the inheritance path
var pathCmd = &cobra.Command{
	Use:   "path ROOT TARGET",
	Short: "Show the inheritance path the resolver follows from ROOT to TARGET",
	Args:  cobra.ExactArgs(2),
	RunE:  runPath,
}

func runResolve(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[2], err)
	}
	src, err := loadClasses(cmd.Context())
	if err != nil {
		return err
	}
	t, err := newResolver(src).ResolveTypeArgument(args[0], args[1], index)
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	p.println(p.typeString(t))
	return nil
}

func runResolveAll(cmd *cobra.Command, args []string) error {
	src, err := loadClasses(cmd.Context())
	if err != nil {
		return err
	}
	r := newResolver(src)
	types, err := r.ResolveAllTypeArguments(args[0], args[1])
	if err != nil {
		return err
	}
	target, err := r.Graph().Node(args[1])
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	for i, t := range types {
		p.printf("%s = %s\n", p.paint(ansiBold, target.TypeParams[i]), p.typeString(t))
	}
	return nil
}

// parseInOwner parses a type expression with owner's parameters in scope.
func parseInOwner(src *classSource, owner, input string) (typesystem.Type, error) {
	c, ok := src.table.Find(owner)
	if !ok {
		return nil, typesystem.NewClassNotFoundError(owner)
	}
	return typesystem.Parse(input, c.Scope())
}

func runActual(cmd *cobra.Command, args []string) error {
	src, err := loadClasses(cmd.Context())
	if err != nil {
		return err
	}
	t, err := parseInOwner(src, args[1], args[2])
	if err != nil {
		return err
	}
	actual, err := newResolver(src).ResolveActualType(args[0], t)
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	p.println(p.typeString(actual))
	return nil
}

func runRaw(cmd *cobra.Command, args []string) error {
	src, err := loadClasses(cmd.Context())
	if err != nil {
		return err
	}
	t, err := parseInOwner(src, args[1], args[2])
	if err != nil {
		return err
	}
	raw, err := newResolver(src).RawClass(args[0], t)
	if err != nil {
		return err
	}
	p := newPrinter(cmd.OutOrStdout())
	p.println(p.paint(ansiGreen, raw))
	return nil
}

func runPath(cmd *cobra.Command, args []string) error {
	src, err := loadClasses(cmd.Context())
	if err != nil {
		return err
	}
	g := newResolver(src).Graph()
	root, err := g.Node(args[0])
	if err != nil {
		return err
	}
	target, err := g.Node(args[1])
	if err != nil {
		return err
	}
	path, err := g.FindPath(root, target)
	if errors.Is(err, hierarchy.ErrNotFound) {
		return fmt.Errorf("%s does not extend or implement %s", args[0], args[1])
	}
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	if len(path) == 0 {
		p.println(p.paint(ansiDim, "(identity)"))
		return nil
	}
	for _, e := range path {
		p.println(e.String())
	}
	return nil
}
