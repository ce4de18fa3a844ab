package data

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// DBError wraps a failure reported by the database driver. Op names the
// gateway operation that failed; Code is the PostgreSQL SQLSTATE when the
// driver supplied one.
type DBError struct {
	Op   string
	Code string
	Err  error
}

func (e *DBError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %v (SQLSTATE %s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DBError) Unwrap() error {
	return e.Err
}

// wrapDBError returns err as a *DBError tagged with op. Nil and sentinel
// errors from this package pass through unchanged.
func wrapDBError(op string, err error) error {
	if err == nil || errors.Is(err, ErrRecordNotFound) || errors.Is(err, ErrInvalidOwner) {
		return err
	}
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return err
	}

	wrapped := &DBError{Op: op, Err: err}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		wrapped.Code = string(pqErr.Code)
	}
	return wrapped
}
