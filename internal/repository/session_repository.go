// Package repository contains data access logic for the session catalog
// and the reservation ledger. This file covers the catalog side: an
// administrator creates sessions with a name and a seat capacity,
// removes individual sessions (cascading to their reservations), or
// wipes the whole schedule. Sessions are ordered by their numeric id,
// which is also the externally visible schedule rank.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mkravets/class-booking/internal/model"
)

// SessionRepo manages persistence for sessions.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *SessionRepo) DB() *sql.DB {
	return r.db
}

// Create validates and inserts a new session, appending it at the end
// of the current schedule order. The id is assigned as max(id)+1 inside
// the transaction so a freshly renumbered schedule keeps 1..N compact
// and new sessions always sort last. Returns ErrValidation when the
// trimmed name is empty or the capacity is not positive.
func (r *SessionRepo) Create(ctx context.Context, name string, capacity int) (*model.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty session name", ErrValidation)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var nextID uint64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM sessions`).Scan(&nextID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO sessions (id, name, capacity) VALUES (?, ?, ?)`, nextID, name, capacity); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &model.Session{ID: nextID, Name: name, Capacity: capacity}, nil
}

// GetByID retrieves a session by its id. It returns ErrSessionNotFound
// if there is no matching row.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = `SELECT id, name, capacity FROM sessions WHERE id = ?`
	var s model.Session
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Name, &s.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns every session in schedule order. When the schedule is
// empty it returns an empty slice and nil error.
func (r *SessionRepo) List(ctx context.Context) ([]model.Session, error) {
	const q = `SELECT id, name, capacity FROM sessions ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Session, 0)
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Name, &s.Capacity); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes a session and cascades deletion of its
// reservations inside one transaction. It returns the distinct user ids
// that held a reservation on the session, so the caller can notify them
// that the class was cancelled. If the session does not exist,
// ErrSessionNotFound is returned and nothing is deleted.
func (r *SessionRepo) DeleteByID(ctx context.Context, id uint64) ([]uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var exists uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	users, err := scanUserIDs(tx.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM reservations WHERE session_id = ? ORDER BY user_id ASC`, id))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE session_id = ?`, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return users, nil
}

// Clear removes every session and reservation. It returns the distinct
// user ids that held any reservation so they can be notified. Clearing
// an already empty schedule is a no-op that returns an empty list.
func (r *SessionRepo) Clear(ctx context.Context) ([]uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	users, err := scanUserIDs(tx.QueryContext(ctx,
		`SELECT DISTINCT user_id FROM reservations ORDER BY user_id ASC`))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations`); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return users, nil
}

// scanUserIDs drains a single-column user id result set.
func scanUserIDs(rows *sql.Rows, err error) ([]uint64, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
