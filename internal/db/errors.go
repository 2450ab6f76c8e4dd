package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrNoRows      = errors.New("db: no rows")
	ErrKeyNotFound = errors.New("db: key not found")
	ErrDuplicate   = errors.New("db: duplicate key")
)

// Op constants name the failing operation for error context.
const (
	OpQuery  = "query"
	OpExec   = "exec"
	OpBegin  = "begin"
	OpCommit = "commit"
	OpGet    = "GET"
	OpSet    = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
