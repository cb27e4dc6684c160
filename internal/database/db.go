// Package database opens the MySQL pool backing the session catalog
// and the reservation ledger.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/mkravets/class-booking/internal/config"
)

// Open connects to the database described by cfg and verifies the
// connection before returning. The pool stays closed on a failed ping
// so the server never starts against an unreachable store.
func Open(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(cfg))
	if err != nil {
		return nil, err
	}

	// Booking mutations are short single transactions issued one per
	// chat interaction; a small recycled pool covers the bursts a
	// broadcast or schedule change triggers.
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// dsn assembles the go-sql-driver connection string. loc=UTC with time
// parsing keeps DATETIME scans consistent wherever the server runs; the
// password segment is omitted entirely when none is configured.
func dsn(cfg config.Config) string {
	auth := cfg.DBUser
	if cfg.DBPass != "" {
		auth += ":" + cfg.DBPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
