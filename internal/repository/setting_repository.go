package repository

import (
	"context"
	"database/sql"
	"errors"
)

// introKey is the settings row holding the introductory message shown
// to users when they first open the booking flow.
const introKey = "intro"

// SettingRepo persists free-text configuration values (single k/v table).
type SettingRepo struct{ db *sql.DB }

// NewSettingRepo returns a SettingRepo bound to the given database.
func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{db: db} }

// GetIntro returns the stored introductory text, or "" when none has
// been set yet.
func (r *SettingRepo) GetIntro(ctx context.Context) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT v FROM settings WHERE k = ?`, introKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// SetIntro stores the introductory text, replacing any previous value.
// Check-then-write keeps the statements portable across drivers; MySQL
// reports zero affected rows for same-value updates, so RowsAffected
// cannot distinguish "missing" from "unchanged".
func (r *SettingRepo) SetIntro(ctx context.Context, text string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM settings WHERE k = ?`, introKey).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = r.db.ExecContext(ctx, `INSERT INTO settings (k, v) VALUES (?, ?)`, introKey, text)
		return err
	}
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE settings SET v = ? WHERE k = ?`, text, introKey)
	return err
}
