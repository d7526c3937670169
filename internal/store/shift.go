package store

import (
	"context"
	"database/sql"
)

// ShiftSlots applies the slot engine's Shift to the persisted board: every
// container boundary >= from and every node slot >= from moves by delta. The
// three updates run inside the caller's transaction, so a shift is never
// half-applied (the atomicity rule of the slot engine).
func ShiftSlots(ctx context.Context, tx *sql.Tx, from, delta int) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE containers SET start_slot = start_slot + ? WHERE start_slot >= ?`, delta, from); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE containers SET end_slot = end_slot + ? WHERE end_slot >= ?`, delta, from); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET slot = slot + ? WHERE slot >= ?`, delta, from); err != nil {
		return err
	}
	return nil
}

// SetSlots rewrites explicit slot assignments (renormalize support). The
// mapping is applied via CASE-free individual updates keyed by id, which is
// simpler than a single statement and still atomic within the transaction.
func SetContainerSlots(ctx context.Context, tx *sql.Tx, id string, start, end int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE containers SET start_slot = ?, end_slot = ? WHERE id = ?`, start, end, id)
	return err
}

func SetNodeSlot(ctx context.Context, tx *sql.Tx, id string, slot int) error {
	_, err := tx.ExecContext(ctx, `UPDATE nodes SET slot = ? WHERE id = ?`, slot, id)
	return err
}
