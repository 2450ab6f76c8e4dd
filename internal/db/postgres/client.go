// Package postgres implements db.Store on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yz-create/magicsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Postgres store.
type Config struct {
	DSN      string
	MaxConns int32
}

// Store implements db.Store via pgxpool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres store from a DSN.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Query runs a parameterized statement returning rows.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (db.Rows, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return pgxRows{rows}, nil
}

// QueryRow runs a parameterized statement returning a single row.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) db.Row {
	return pgxRow{s.pool.QueryRow(ctx, sql, args...)}
}

// Exec runs a parameterized statement and returns the affected row count.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, wrapExecErr(err)
	}
	return tag.RowsAffected(), nil
}

// InTx runs fn inside one transaction; any error rolls everything back.
func (s *Store) InTx(ctx context.Context, fn func(q db.Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &db.Error{Op: db.OpBegin, Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(txQuerier{tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return &db.Error{Op: db.OpCommit, Err: err}
	}
	return nil
}

// txQuerier adapts pgx.Tx to db.Querier.
type txQuerier struct {
	tx pgx.Tx
}

func (t txQuerier) Query(ctx context.Context, sql string, args ...any) (db.Rows, error) {
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return pgxRows{rows}, nil
}

func (t txQuerier) QueryRow(ctx context.Context, sql string, args ...any) db.Row {
	return pgxRow{t.tx.QueryRow(ctx, sql, args...)}
}

func (t txQuerier) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, wrapExecErr(err)
	}
	return tag.RowsAffected(), nil
}

// pgxRows adapts pgx.Rows to db.Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Next() bool            { return r.rows.Next() }
func (r pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) } //nolint:wrapcheck // thin adapter
func (r pgxRows) Err() error            { return r.rows.Err() }
func (r pgxRows) Close()                { r.rows.Close() }

// pgxRow adapts pgx.Row to db.Row, translating the no-rows sentinel.
type pgxRow struct {
	row pgx.Row
}

func (r pgxRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ErrNoRows
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return db.ErrDuplicate
	}
	return err //nolint:wrapcheck // thin adapter
}

// wrapExecErr tags exec failures, surfacing unique violations as db.ErrDuplicate.
func wrapExecErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return db.ErrDuplicate
	}
	return &db.Error{Op: db.OpExec, Err: err}
}
