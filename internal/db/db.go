// Package db defines the storage facade consumed by the repositories and
// the compiler that turns validated filters into parameterized predicates.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers use the narrow sub-interfaces (ISP).
type Store interface {
	Pinger
	Querier
	TxRunner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Row is a single-row result.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row result cursor.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier runs parameterized SQL. Values are always bound, never
// interpolated; identifiers in query text come only from compile-time maps.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

// TxRunner wraps fn in a single transaction: every write inside commits
// together or the whole transaction rolls back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(q Querier) error) error
}
