// Package history keeps a local ledger of verification runs in SQLite.
// Records are hash-chained so the auditor's own log is tamper-evident.
// Ledger failures are reported with their own error code and must never
// change a verification outcome.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"drawaudit/internal/errors"
)

// DB is the ledger database with transaction helpers.
type DB struct {
	conn   *sql.DB
	dbPath string
}

// DefaultPath returns the ledger location, ~/.drawaudit/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New(errors.HistoryUnavailable, "cannot locate home directory", err)
	}
	return filepath.Join(home, ".drawaudit", "history.db"), nil
}

// Open opens or creates the ledger database at path, creating the parent
// directory when needed.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "cannot create ledger directory", err)
	}

	dbExists := fileExists(path)

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "cannot open ledger database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on lock
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, errors.New(errors.HistoryUnavailable, "cannot set pragma", err)
		}
	}

	db := &DB{conn: conn, dbPath: path}

	if !dbExists {
		log.WithField("path", path).Debug("creating run history database")
		if err := db.initializeSchema(); err != nil {
			conn.Close()
			return nil, errors.New(errors.HistoryUnavailable, "cannot initialize ledger schema", err)
		}
	} else {
		if err := db.runMigrations(); err != nil {
			conn.Close()
			return nil, errors.New(errors.HistoryUnavailable, "cannot migrate ledger schema", err)
		}
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// WithTx executes fn within a transaction, rolling back on error or panic.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-throw panic after rollback
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.WithFields(log.Fields{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			}).Error("failed to rollback ledger transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Exec executes a query without returning rows.
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query executes a query that returns rows.
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row.
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
