package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkravets/class-booking/internal/model"
)

// ReservationRepo provides the seat ledger: capacity-checked reserve
// and release operations plus the aggregate views the transport layer
// renders. A reservation is one row per (user, session) pair holding a
// seat count; repeated reserves add to the existing row. Every mutating
// method runs as a single transaction so the capacity check can never
// interleave with another writer's commit.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Availability pairs a session with its current seat usage. Returned by
// ListAvailability in schedule order.
type Availability struct {
	Session    model.Session `json:"session"`
	SeatsTaken int           `json:"seats_taken"`
	SeatsFree  int           `json:"seats_free"`
}

// UserReservation is one user's booking on one session, in schedule order.
type UserReservation struct {
	Session   model.Session `json:"session"`
	SeatCount int           `json:"seat_count"`
}

// ReservationDetail is a single ledger row with its session, used by
// the admin overview. Ordered by session rank, then by user id.
type ReservationDetail struct {
	Session   model.Session `json:"session"`
	UserID    uint64        `json:"user_id"`
	SeatCount int           `json:"seat_count"`
}

// Reserve books seats on a session for a user and returns the user's
// new total seat count on that session. The capacity check and the
// upsert happen inside one transaction: the sum of all seat counts is
// re-read at write time, so a stale availability listing can never lead
// to overbooking. Returns ErrValidation for seats < 1,
// ErrSessionNotFound for an unknown session, and ErrCapacityExceeded
// (with no state change) when the session cannot take the requested
// seats.
func (r *ReservationRepo) Reserve(ctx context.Context, userID, sessionID uint64, seats int) (int, error) {
	if seats < 1 {
		return 0, fmt.Errorf("%w: seats must be at least 1", ErrValidation)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var capacity int
	if err := tx.QueryRowContext(ctx, `SELECT capacity FROM sessions WHERE id = ?`, sessionID).Scan(&capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	var taken int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(seat_count), 0) FROM reservations WHERE session_id = ?`, sessionID).Scan(&taken); err != nil {
		return 0, err
	}
	if taken+seats > capacity {
		return 0, fmt.Errorf("%w: %d of %d seats taken", ErrCapacityExceeded, taken, capacity)
	}
	// Manual upsert keeps the SQL portable between MySQL and SQLite.
	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT seat_count FROM reservations WHERE user_id = ? AND session_id = ?`, userID, sessionID).Scan(&current)
	var newCount int
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reservations (user_id, session_id, seat_count) VALUES (?, ?, ?)`,
			userID, sessionID, seats); err != nil {
			return 0, err
		}
		newCount = seats
	case err != nil:
		return 0, err
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE reservations SET seat_count = seat_count + ? WHERE user_id = ? AND session_id = ?`,
			seats, userID, sessionID); err != nil {
			return 0, err
		}
		newCount = current + seats
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return newCount, nil
}

// Release gives back seats a user holds on a session and returns the
// user's remaining count. With releaseAll, or when only one seat is
// held, the reservation row is deleted and 0 is returned; otherwise the
// count is decremented by exactly one. Returns ErrReservationNotFound
// when the user holds nothing on the session.
func (r *ReservationRepo) Release(ctx context.Context, userID, sessionID uint64, releaseAll bool) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var current int
	if err := tx.QueryRowContext(ctx,
		`SELECT seat_count FROM reservations WHERE user_id = ? AND session_id = ?`, userID, sessionID).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrReservationNotFound
		}
		return 0, err
	}
	remaining := 0
	if releaseAll || current <= 1 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM reservations WHERE user_id = ? AND session_id = ?`, userID, sessionID); err != nil {
			return 0, err
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE reservations SET seat_count = seat_count - 1 WHERE user_id = ? AND session_id = ?`,
			userID, sessionID); err != nil {
			return 0, err
		}
		remaining = current - 1
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return remaining, nil
}

// TotalSeats returns the number of seats taken on a session across all
// users, 0 when nobody is booked. Unknown sessions also report 0; the
// caller decides whether existence matters.
func (r *ReservationRepo) TotalSeats(ctx context.Context, sessionID uint64) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(seat_count), 0) FROM reservations WHERE session_id = ?`, sessionID).Scan(&total)
	return total, err
}

// ListAvailability returns every session with its taken and free seat
// counts, in schedule order. The whole listing comes from one query, so
// it reflects a single consistent snapshot.
func (r *ReservationRepo) ListAvailability(ctx context.Context) ([]Availability, error) {
	const q = `SELECT s.id, s.name, s.capacity, COALESCE(SUM(rv.seat_count), 0)
	           FROM sessions s
	           LEFT JOIN reservations rv ON rv.session_id = s.id
	           GROUP BY s.id, s.name, s.capacity
	           ORDER BY s.id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]Availability, 0)
	for rows.Next() {
		var a Availability
		if err := rows.Scan(&a.Session.ID, &a.Session.Name, &a.Session.Capacity, &a.SeatsTaken); err != nil {
			return nil, err
		}
		a.SeatsFree = a.Session.Capacity - a.SeatsTaken
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByUser returns the sessions a user is booked on with their seat
// counts, ordered by schedule rank. An empty slice means no bookings.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]UserReservation, error) {
	const q = `SELECT s.id, s.name, s.capacity, rv.seat_count
	           FROM reservations rv
	           JOIN sessions s ON s.id = rv.session_id
	           WHERE rv.user_id = ?
	           ORDER BY s.id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]UserReservation, 0)
	for rows.Next() {
		var ur UserReservation
		if err := rows.Scan(&ur.Session.ID, &ur.Session.Name, &ur.Session.Capacity, &ur.SeatCount); err != nil {
			return nil, err
		}
		result = append(result, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAll returns every reservation row joined with its session,
// grouped by session in schedule order with a stable user order inside
// each group. Used by the admin overview.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
	const q = `SELECT s.id, s.name, s.capacity, rv.user_id, rv.seat_count
	           FROM reservations rv
	           JOIN sessions s ON s.id = rv.session_id
	           ORDER BY s.id ASC, rv.user_id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(&d.Session.ID, &d.Session.Name, &d.Session.Capacity, &d.UserID, &d.SeatCount); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AllUserIDs returns the distinct user ids holding any reservation,
// ascending. This is the broadcast recipient set.
func (r *ReservationRepo) AllUserIDs(ctx context.Context) ([]uint64, error) {
	return scanUserIDs(r.db.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM reservations ORDER BY user_id ASC`))
}

// Totals reports the reservation row count and the sum of all seat
// counts. The reindexer uses it to verify that a reorder neither lost
// nor duplicated a single seat.
func (r *ReservationRepo) Totals(ctx context.Context) (rows int, seats int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(seat_count), 0) FROM reservations`).Scan(&rows, &seats)
	return rows, seats, err
}
