package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single local writer; WAL keeps reads cheap while a mutation commits.
	pragmas := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA foreign_keys=ON;`,
		`PRAGMA busy_timeout=5000;`,
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS containers (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			start_slot INTEGER NOT NULL,
			end_slot INTEGER NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_containers_start ON containers(start_slot);`,
		`CREATE INDEX IF NOT EXISTS idx_containers_parent ON containers(parent_id);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			container_id TEXT NOT NULL DEFAULT '',
			thread_id TEXT NOT NULL,
			type TEXT NOT NULL,
			role TEXT NOT NULL,
			slot INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_slot ON nodes(slot);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_thread ON nodes(thread_id);`,
		`CREATE TABLE IF NOT EXISTS board_events (
			id TEXT PRIMARY KEY,
			ts_unixms INTEGER NOT NULL,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL DEFAULT '',
			payload_json TEXT NOT NULL DEFAULT '{}'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_board_events_ts ON board_events(ts_unixms);`,
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL DEFAULT ''
		);`,
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
