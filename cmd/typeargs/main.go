package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	schemaPath  string
	goPackages  []string
	dbPath      string
	snapshotRef string
	noCache     bool

	// Logger
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "typeargs",
	Short: "Resolve the type arguments a class binds for its generic ancestors",
	Long: `typeargs answers "what is T of Base<T> when seen from Sub?" for class
hierarchies declared in a typeargs.yaml schema, loaded from Go packages
(struct and interface embedding), or replayed from a stored snapshot.

Class sources, in order of precedence:
  --snapshot ID|latest   a snapshot in the --db database
  --go-pkg PATTERN       Go packages (repeatable)
  --schema FILE          a schema file ($TYPEARGS_SCHEMA, or typeargs.yaml
                         found by walking up from the current directory)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&schemaPath, "schema", "s", "", "Schema file (or set TYPEARGS_SCHEMA)")
	flags.StringArrayVar(&goPackages, "go-pkg", nil, "Load classes from Go packages matching this pattern (repeatable)")
	flags.StringVar(&dbPath, "db", "", "Snapshot database (or set TYPEARGS_DB; default .typeargs.db)")
	flags.StringVar(&snapshotRef, "snapshot", "", "Load classes from a snapshot id, or 'latest'")
	flags.BoolVar(&noCache, "no-cache", false, "Disable memoization of composed substitutions")

	classesCmd.Flags().Bool("yaml", false, "Print the classes as a typeargs.yaml schema")
	snapshotSaveCmd.Flags().String("label", "", "Snapshot label (default: the class source)")

	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(resolveAllCmd)
	rootCmd.AddCommand(actualCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
