// Package store persists class tables as immutable snapshots in SQLite.
//
// A snapshot freezes the classes a table defines (its outer tables are
// not copied; only whether it inherits the built-in prelude is recorded)
// so resolutions can later be replayed without re-reading schemas or Go
// sources.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/funvibe/typeargs/internal/symbols"
	"github.com/funvibe/typeargs/internal/typesystem"
)

// ErrSnapshotNotFound is returned when no snapshot matches the request.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes a stored class table.
type Snapshot struct {
	ID        uuid.UUID
	Label     string
	CreatedAt time.Time
	Prelude   bool // table inherits the built-in leaf classes
	Classes   int
}

// Store manages the snapshot database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open opens (creating if needed) the snapshot database at dsn.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; pragmas below are per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		created_at TEXT NOT NULL,
		prelude INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);

	CREATE TABLE IF NOT EXISTS classes (
		snapshot_id TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		is_interface INTEGER NOT NULL DEFAULT 0,
		params TEXT NOT NULL,
		extends TEXT,
		implements TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, name),
		FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save stores the classes defined in table under a new snapshot id.
func (s *Store) Save(ctx context.Context, table *symbols.ClassTable, label string) (uuid.UUID, error) {
	id := uuid.New()
	prelude := table.Outer() != nil && table.Outer() == symbols.GetPrelude()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("saving snapshot: %w", err)
	}
	defer tx.Rollback()

	created := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, label, created_at, prelude) VALUES (?, ?, ?, ?)`,
		id.String(), label, created, boolToInt(prelude)); err != nil {
		return uuid.Nil, fmt.Errorf("saving snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classes (snapshot_id, name, position, is_interface, params, extends, implements)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("saving snapshot: %w", err)
	}
	defer stmt.Close()

	for pos, name := range table.Names() {
		c, _ := table.Find(name)
		row, err := encodeClass(c)
		if err != nil {
			return uuid.Nil, fmt.Errorf("saving class %s: %w", name, err)
		}
		if _, err := stmt.ExecContext(ctx, id.String(), c.Name, pos, boolToInt(c.IsInterface),
			row.params, row.extends, row.implements); err != nil {
			return uuid.Nil, fmt.Errorf("saving class %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("saving snapshot: %w", err)
	}
	s.logger.Debug("Saved snapshot",
		zap.String("id", id.String()),
		zap.String("label", label),
		zap.Int("classes", table.Len()))
	return id, nil
}

// Load rebuilds the class table stored under id. The table is validated
// before it is returned.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*symbols.ClassTable, error) {
	var prelude int
	err := s.db.QueryRowContext(ctx, `SELECT prelude FROM snapshots WHERE id = ?`, id.String()).Scan(&prelude)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", id, err)
	}

	table := symbols.NewEmptyClassTable()
	if prelude != 0 {
		table = symbols.NewClassTable()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, is_interface, params, extends, implements
		FROM classes WHERE snapshot_id = ? ORDER BY position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row classRow
		var name string
		var iface int
		if err := rows.Scan(&name, &iface, &row.params, &row.extends, &row.implements); err != nil {
			return nil, fmt.Errorf("loading snapshot %s: %w", id, err)
		}
		c, err := row.decode(name, iface != 0)
		if err != nil {
			return nil, fmt.Errorf("loading class %s: %w", name, err)
		}
		if err := table.Define(c); err != nil {
			return nil, fmt.Errorf("loading snapshot %s: %w", id, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", id, err)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	s.logger.Debug("Loaded snapshot", zap.String("id", id.String()), zap.Int("classes", table.Len()))
	return table, nil
}

// List returns all snapshots, oldest first.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.label, s.created_at, s.prelude, COUNT(c.name)
		FROM snapshots s LEFT JOIN classes c ON c.snapshot_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at, s.rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("listing snapshots: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return out, nil
}

// Latest returns the most recently saved snapshot.
func (s *Store) Latest(ctx context.Context) (Snapshot, error) {
	snaps, err := s.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snaps) == 0 {
		return Snapshot{}, ErrSnapshotNotFound
	}
	return snaps[len(snaps)-1], nil
}

// Delete removes a snapshot and its classes.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE snapshot_id = ?`, id.String()); err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(sc scanner) (Snapshot, error) {
	var snap Snapshot
	var id, created string
	var prelude int
	if err := sc.Scan(&id, &snap.Label, &created, &prelude, &snap.Classes); err != nil {
		return snap, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return snap, fmt.Errorf("bad snapshot id %q: %w", id, err)
	}
	snap.ID = parsed
	snap.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return snap, fmt.Errorf("bad timestamp for %s: %w", id, err)
	}
	snap.Prelude = prelude != 0
	return snap, nil
}

// classRow is the column encoding of a class: params and implements are
// JSON arrays, type expressions use typesystem.MarshalType.
type classRow struct {
	params     string
	extends    sql.NullString
	implements string
}

func encodeClass(c *symbols.Class) (classRow, error) {
	var row classRow
	params, err := json.Marshal(append([]string{}, c.TypeParams...))
	if err != nil {
		return row, err
	}
	row.params = string(params)

	if c.Super != nil {
		data, err := typesystem.MarshalType(c.Super)
		if err != nil {
			return row, fmt.Errorf("extends: %w", err)
		}
		row.extends = sql.NullString{String: string(data), Valid: true}
	}

	impls := make([]json.RawMessage, 0, len(c.Interfaces))
	for _, iface := range c.Interfaces {
		data, err := typesystem.MarshalType(iface)
		if err != nil {
			return row, fmt.Errorf("implements: %w", err)
		}
		impls = append(impls, data)
	}
	data, err := json.Marshal(impls)
	if err != nil {
		return row, err
	}
	row.implements = string(data)
	return row, nil
}

func (row classRow) decode(name string, iface bool) (symbols.Class, error) {
	c := symbols.Class{Name: name, IsInterface: iface}
	if err := json.Unmarshal([]byte(row.params), &c.TypeParams); err != nil {
		return c, fmt.Errorf("params: %w", err)
	}
	if row.extends.Valid {
		super, err := typesystem.UnmarshalType([]byte(row.extends.String))
		if err != nil {
			return c, fmt.Errorf("extends: %w", err)
		}
		c.Super = super
	}
	var impls []json.RawMessage
	if err := json.Unmarshal([]byte(row.implements), &impls); err != nil {
		return c, fmt.Errorf("implements: %w", err)
	}
	for _, raw := range impls {
		t, err := typesystem.UnmarshalType(raw)
		if err != nil {
			return c, fmt.Errorf("implements: %w", err)
		}
		c.Interfaces = append(c.Interfaces, t)
	}
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
