package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"braid/internal/model"
)

func containerArgs(c model.Container) []any {
	parent := ""
	if c.ParentID != nil {
		parent = strings.TrimSpace(*c.ParentID)
	}
	return []any{
		c.ID, parent, c.Title, c.StartSlot, c.EndSlot,
		c.CreatedAt.UTC().UnixMilli(), c.UpdatedAt.UTC().UnixMilli(),
	}
}

// InsertContainer writes a container row inside the given transaction.
func InsertContainer(ctx context.Context, tx *sql.Tx, c model.Container) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO containers(
		id, parent_id, title, start_slot, end_slot, created_at_unixms, updated_at_unixms
	) VALUES(?, ?, ?, ?, ?, ?, ?)`, containerArgs(c)...)
	return err
}

func UpdateContainerTitle(ctx context.Context, tx *sql.Tx, id, title string) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE containers SET title = ?, updated_at_unixms = ? WHERE id = ?`,
		title, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func DeleteContainerRow(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM containers WHERE id = ?`, id)
	return err
}

func scanContainers(rows *sql.Rows) ([]model.Container, error) {
	out := []model.Container{}
	for rows.Next() {
		var c model.Container
		var parent string
		var createdMs, updatedMs int64
		if err := rows.Scan(&c.ID, &parent, &c.Title, &c.StartSlot, &c.EndSlot, &createdMs, &updatedMs); err != nil {
			return nil, err
		}
		if parent != "" {
			p := parent
			c.ParentID = &p
		}
		c.CreatedAt = time.UnixMilli(createdMs).UTC()
		c.UpdatedAt = time.UnixMilli(updatedMs).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListContainers reads every container ordered by start slot (then span,
// widest first, so parents precede children at equal starts).
func (d *DB) ListContainers(ctx context.Context) ([]model.Container, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.sqldb.QueryContext(ctx, `SELECT
		id, parent_id, title, start_slot, end_slot, created_at_unixms, updated_at_unixms
	FROM containers ORDER BY start_slot ASC, (end_slot - start_slot) DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContainers(rows)
}
