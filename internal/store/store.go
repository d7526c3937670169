package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
)

const dbFileName = "board.sqlite"

// ErrClosed is returned by any operation attempted against a store that was
// never opened or has already been closed.
var ErrClosed = errors.New("store not open")

// Store locates a braid workspace on disk. The workspace is a .braid/
// directory holding the SQLite board database.
type Store struct {
	Dir string
}

// DiscoverDir walks upward from start looking for an existing .braid/ dir.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".braid")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the workspace dir: an existing .braid/ found by upward
// discovery, else .braid/ under the current directory.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".braid"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) DBPath() string {
	return filepath.Join(s.Dir, dbFileName)
}

// DB is an open board database. All mutating operations run inside explicit
// transactions so slot shifts are never half-applied.
type DB struct {
	sqldb *sql.DB
}

// Open ensures the workspace dir exists, opens the SQLite database, and
// applies the schema idempotently.
func (s Store) Open(ctx context.Context) (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	sqldb, err := openSQLite(ctx, s.DBPath())
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, sqldb); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return &DB{sqldb: sqldb}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sqldb == nil {
		return nil
	}
	err := d.sqldb.Close()
	d.sqldb = nil
	return err
}

func (d *DB) ready() error {
	if d == nil || d.sqldb == nil {
		return ErrClosed
	}
	return nil
}

// BeginTx starts a mutation transaction. Callers must defer Rollback and
// Commit explicitly.
func (d *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	return d.sqldb.BeginTx(ctx, &sql.TxOptions{})
}
