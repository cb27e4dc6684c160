package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// ScheduleReindexer renumbers the session catalog when an administrator
// moves a session to a new rank. Session ids are the externally visible
// schedule order, so a reorder must assign fresh sequential ids 1..N
// and rewrite every reservation's session reference to match. The whole
// rewrite is one transaction: either every session and reservation is
// renumbered consistently, or the store is left exactly as it was.
type ScheduleReindexer struct {
	db *sql.DB
}

// NewScheduleReindexer constructs a ScheduleReindexer with the given DB handle.
func NewScheduleReindexer(db *sql.DB) *ScheduleReindexer {
	return &ScheduleReindexer{db: db}
}

// MoveSession places sessionID at targetPosition (1-based) in the
// schedule and renumbers all sessions to 1..N. Positions past the end
// clamp to the end and positions below 1 clamp to the front, so moving
// a session to its current rank leaves the observable order unchanged.
// It returns (false, nil) without touching the store when the schedule
// is empty or the id is unknown. Any failure mid-rewrite rolls the
// transaction back and surfaces as ErrReindexFailed.
func (r *ScheduleReindexer) MoveSession(ctx context.Context, sessionID uint64, targetPosition int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ordered, err := orderedSessionIDs(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("%w: load order: %v", ErrReindexFailed, err)
	}
	if len(ordered) == 0 {
		return false, nil
	}
	rest := make([]uint64, 0, len(ordered)-1)
	found := false
	for _, id := range ordered {
		if id == sessionID {
			found = true
			continue
		}
		rest = append(rest, id)
	}
	if !found {
		return false, nil
	}

	// Reinsert at the requested rank, clamped so that 1 is the front
	// and anything past len(rest)+1 is the back.
	idx := targetPosition - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(rest) {
		idx = len(rest)
	}
	newOrder := make([]uint64, 0, len(ordered))
	newOrder = append(newOrder, rest[:idx]...)
	newOrder = append(newOrder, sessionID)
	newOrder = append(newOrder, rest[idx:]...)

	rowsBefore, seatsBefore, err := reservationTotalsTx(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("%w: totals: %v", ErrReindexFailed, err)
	}

	// Two sweeps avoid primary key collisions while renumbering: first
	// shift every id above the live range, then assign the final 1..N.
	shift := ordered[len(ordered)-1]
	if _, err = tx.ExecContext(ctx, `UPDATE sessions SET id = id + ?`, shift); err != nil {
		return false, fmt.Errorf("%w: shift sessions: %v", ErrReindexFailed, err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE reservations SET session_id = session_id + ?`, shift); err != nil {
		return false, fmt.Errorf("%w: shift reservations: %v", ErrReindexFailed, err)
	}
	for pos, oldID := range newOrder {
		newID := uint64(pos + 1)
		if _, err = tx.ExecContext(ctx,
			`UPDATE sessions SET id = ? WHERE id = ?`, newID, oldID+shift); err != nil {
			return false, fmt.Errorf("%w: renumber session %d: %v", ErrReindexFailed, oldID, err)
		}
		if _, err = tx.ExecContext(ctx,
			`UPDATE reservations SET session_id = ? WHERE session_id = ?`, newID, oldID+shift); err != nil {
			return false, fmt.Errorf("%w: remap reservations of %d: %v", ErrReindexFailed, oldID, err)
		}
	}

	rowsAfter, seatsAfter, err := reservationTotalsTx(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("%w: verify totals: %v", ErrReindexFailed, err)
	}
	if rowsAfter != rowsBefore || seatsAfter != seatsBefore {
		return false, fmt.Errorf("%w: totals changed (%d/%d rows, %d/%d seats)",
			ErrReindexFailed, rowsBefore, rowsAfter, seatsBefore, seatsAfter)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: commit: %v", ErrReindexFailed, err)
	}
	committed = true
	return true, nil
}

func orderedSessionIDs(ctx context.Context, tx *sql.Tx) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM sessions ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func reservationTotalsTx(ctx context.Context, tx *sql.Tx) (int, int, error) {
	var rows, seats int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(seat_count), 0) FROM reservations`).Scan(&rows, &seats)
	return rows, seats, err
}
