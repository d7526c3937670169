package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"braid/internal/model"
)

// InsertNode writes a node row inside the given transaction.
func InsertNode(ctx context.Context, tx *sql.Tx, n model.Node) error {
	container := ""
	if n.ContainerID != nil {
		container = strings.TrimSpace(*n.ContainerID)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO nodes(
		id, container_id, thread_id, type, role, slot, title, description,
		created_at_unixms, updated_at_unixms
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, container, n.ThreadID, string(n.Type), string(n.Role), n.Slot,
		n.Title, n.Description,
		n.CreatedAt.UTC().UnixMilli(), n.UpdatedAt.UTC().UnixMilli())
	return err
}

func UpdateNodeText(ctx context.Context, tx *sql.Tx, id string, title, description *string) (bool, error) {
	sets := []string{"updated_at_unixms = ?"}
	args := []any{time.Now().UTC().UnixMilli()}
	if title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *title)
	}
	if description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *description)
	}
	args = append(args, id)
	res, err := tx.ExecContext(ctx, `UPDATE nodes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func DeleteNodeRow(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	return err
}

func scanNodes(rows *sql.Rows) ([]model.Node, error) {
	out := []model.Node{}
	for rows.Next() {
		var n model.Node
		var container, typ, role string
		var createdMs, updatedMs int64
		if err := rows.Scan(&n.ID, &container, &n.ThreadID, &typ, &role, &n.Slot,
			&n.Title, &n.Description, &createdMs, &updatedMs); err != nil {
			return nil, err
		}
		if container != "" {
			c := container
			n.ContainerID = &c
		}
		n.Type = model.NodeType(typ)
		n.Role = model.NodeRole(role)
		n.CreatedAt = time.UnixMilli(createdMs).UTC()
		n.UpdatedAt = time.UnixMilli(updatedMs).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

// ListNodes reads every node ordered by slot.
func (d *DB) ListNodes(ctx context.Context) ([]model.Node, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	rows, err := d.sqldb.QueryContext(ctx, `SELECT
		id, container_id, thread_id, type, role, slot, title, description,
		created_at_unixms, updated_at_unixms
	FROM nodes ORDER BY slot ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNodes(rows)
}
