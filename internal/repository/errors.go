package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dan9191/aurora/internal/models"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// wrapErr translates driver errors into model sentinels and adds context.
func wrapErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", msg, models.ErrConflict)
	}
	return fmt.Errorf("failed to %s: %w", msg, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// expectOne turns a zero-row write into ErrNotFound.
func expectOne(res sql.Result, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), models.ErrNotFound)
	}
	return nil
}
