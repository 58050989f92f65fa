package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound marks a single-item fetch that matched no rows. Callers turn it
// into an absent result rather than a failure.
var ErrNotFound = errors.New("content store: no rows")

// StoreError is the one error type every store-reported fault is normalized to.
type StoreError struct {
	Op      string
	Message string
	Code    string // SQLSTATE when the store reports one
	Err     error
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("content store failure during %s: %s (code %s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("content store failure during %s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Normalize converts a raw store error into ErrNotFound or a *StoreError.
func Normalize(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{Op: op, Message: pgErr.Message, Code: pgErr.Code, Err: err}
	}

	msg := err.Error()
	if msg == "" {
		msg = "an unexpected error occurred"
	}
	return &StoreError{Op: op, Message: msg, Err: err}
}

// IsNotFound reports whether err is the store's "no rows" outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports whether err came from a unique index.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// gorm's sqlite translator only understands mattn's error type
	var liteErr *moderncsqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
