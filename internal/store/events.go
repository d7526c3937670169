package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"braid/internal/model"
)

// AppendEvent journals one mutation in the same transaction that applies it,
// so the log and the board never disagree.
func AppendEvent(ctx context.Context, tx *sql.Tx, typ, entityID string, payload any) error {
	id, err := NewID("evt")
	if err != nil {
		return err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO board_events(
		id, ts_unixms, type, entity_id, payload_json
	) VALUES(?, ?, ?, ?, ?)`,
		id, time.Now().UTC().UnixMilli(), typ, entityID, string(raw))
	return err
}

// ReadEvents returns journal rows oldest-first. limit <= 0 returns all; a
// positive limit returns the newest rows (still oldest-first within the
// returned window).
func (d *DB) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	// rowid reflects append order exactly; ts alone can tie within one ms.
	q := `SELECT id, ts_unixms, type, entity_id, payload_json FROM board_events ORDER BY rowid ASC`
	args := []any{}
	if limit > 0 {
		q = `SELECT id, ts_unixms, type, entity_id, payload_json FROM (
			SELECT rowid AS rid, id, ts_unixms, type, entity_id, payload_json
			FROM board_events ORDER BY rowid DESC LIMIT ?
		) ORDER BY rid ASC`
		args = append(args, limit)
	}
	rows, err := d.sqldb.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var ev model.Event
		var tsMs int64
		var payload string
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		var v any
		if err := json.Unmarshal([]byte(payload), &v); err == nil {
			ev.Payload = v
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
