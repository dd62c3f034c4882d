package config

// SchemaFileNames are the recognized schema file names, in lookup order.
var SchemaFileNames = []string{"typeargs.yaml", "typeargs.yml"}

// Environment variables consulted by the CLI when flags are absent.
const (
	EnvSchema = "TYPEARGS_SCHEMA"
	EnvDB     = "TYPEARGS_DB"
)

// Built-in class names
const (
	// TopClass is the implicit root of every class chain. Unbounded
	// wildcards erase to it.
	TopClass = "Object"

	// ArraySuffix marks array types in the textual type syntax (T[]).
	ArraySuffix = "[]"

	// WildcardToken is the textual form of an unbounded wildcard.
	WildcardToken = "?"

	// WildcardExtends introduces a wildcard's upper bound (? extends T).
	WildcardExtends = "extends"
)

// LeafClasses are auto-declared by the schema loader when auto_declare is
// enabled and a schema references them without defining them.
var LeafClasses = []string{
	TopClass,
	"String",
	"Integer",
	"Long",
	"Double",
	"Boolean",
	"Character",
	"Byte",
	"Short",
	"Float",
}

// DefaultDBFile is the snapshot database used when neither --db nor
// TYPEARGS_DB is given.
const DefaultDBFile = ".typeargs.db"
