package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/funvibe/typeargs/internal/config"
	"github.com/funvibe/typeargs/internal/goinspect"
	"github.com/funvibe/typeargs/internal/resolver"
	"github.com/funvibe/typeargs/internal/schema"
	"github.com/funvibe/typeargs/internal/store"
	"github.com/funvibe/typeargs/internal/symbols"
)

// classSource is a loaded class table and a description of where it
// came from.
type classSource struct {
	table *symbols.ClassTable
	desc  string
}

// loadClasses loads the class table selected by the global flags.
func loadClasses(ctx context.Context) (*classSource, error) {
	switch {
	case snapshotRef != "":
		return loadSnapshot(ctx, snapshotRef)

	case len(goPackages) > 0:
		ld := goinspect.New(goinspect.WithLogger(logger))
		table, err := ld.Load(ctx, goPackages...)
		if err != nil {
			return nil, err
		}
		return &classSource{table: table, desc: "go:" + strings.Join(goPackages, ",")}, nil
	}

	path, err := findSchemaPath()
	if err != nil {
		return nil, err
	}
	table, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded schema", zap.String("path", path), zap.Int("classes", table.Len()))
	return &classSource{table: table, desc: path}, nil
}

func findSchemaPath() (string, error) {
	if schemaPath != "" {
		return schemaPath, nil
	}
	if env := os.Getenv(config.EnvSchema); env != "" {
		return env, nil
	}
	path, err := schema.FindSchema(".")
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("no %s found; use --schema, --go-pkg or --snapshot", config.SchemaFileNames[0])
	}
	return path, nil
}

func databasePath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv(config.EnvDB); env != "" {
		return env
	}
	return config.DefaultDBFile
}

func openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, databasePath(), store.WithLogger(logger))
}

func loadSnapshot(ctx context.Context, ref string) (*classSource, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	var id uuid.UUID
	if ref == "latest" {
		snap, err := st.Latest(ctx)
		if err != nil {
			if errors.Is(err, store.ErrSnapshotNotFound) {
				return nil, fmt.Errorf("no snapshots in %s", databasePath())
			}
			return nil, err
		}
		id = snap.ID
	} else {
		id, err = uuid.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot id %q: %w", ref, err)
		}
	}

	table, err := st.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &classSource{table: table, desc: "snapshot:" + id.String()}, nil
}

func newResolver(src *classSource) *resolver.Resolver {
	return resolver.New(src.table,
		resolver.WithLogger(logger),
		resolver.WithCache(!noCache))
}
