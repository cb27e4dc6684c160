package repository

import (
	"context"
	"database/sql"
)

// schemaStatements creates the three tables the service owns. The DDL is
// kept portable between MySQL (production) and SQLite (tests): session
// ids are assigned by the repository rather than by an auto-increment
// column, because they double as the schedule order and are renumbered
// on reorder. reservations.session_id carries no DB-level foreign key;
// the reindexer rewrites ids in bulk and MySQL cannot defer constraint
// checks mid-transaction, so referential integrity is enforced by the
// repository layer instead.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGINT NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		capacity INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		user_id BIGINT NOT NULL,
		session_id BIGINT NOT NULL,
		seat_count INT NOT NULL,
		PRIMARY KEY (user_id, session_id)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		k VARCHAR(64) NOT NULL PRIMARY KEY,
		v TEXT NOT NULL
	)`,
}

// EnsureSchema creates any missing tables. It is idempotent and is run
// once at startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
