package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/ledger"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema_postgres.sql
var postgresSchema string

//go:embed schema_sqlite.sql
var sqliteSchema string

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository provides database operations.
// All queries use $n placeholders in ascending order so the same SQL runs on
// PostgreSQL and SQLite.
type Repository struct {
	db     *sql.DB
	driver string
}

// NewRepository initializes a new repository over an open handle
func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

// Open connects to the database and verifies the connection.
func Open(driver, dsn string) (*Repository, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == config.DriverSQLite {
		// SQLite has a single writer; one connection serializes ledger transactions.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		for _, pragma := range []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
			"PRAGMA foreign_keys = ON",
		} {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
			}
		}
	}

	return NewRepository(db, driver), nil
}

// Migrate creates any missing tables and indexes. It is idempotent.
func (r *Repository) Migrate(ctx context.Context) error {
	schema := postgresSchema
	if r.driver == config.DriverSQLite {
		schema = sqliteSchema
	}
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Repository methods when available.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// WithinTx runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback() // No-op after commit

	if err := fn(&ledgerTx{q: sqlTx, forUpdate: r.lockClause()}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockClause returns the row lock suffix for reads inside a ledger transaction.
func (r *Repository) lockClause() string {
	if r.driver == config.DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

func now() time.Time {
	return time.Now().UTC()
}

var _ ledger.Store = (*Repository)(nil)
