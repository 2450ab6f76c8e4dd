// Package search executes compiled filter predicates and vector KNN queries.
package search

import (
	"context"
	"fmt"

	"github.com/yz-create/magicsearch/internal/db"
	"github.com/yz-create/magicsearch/internal/domain"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Query(ctx context.Context, sql string, args ...any) (db.Rows, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// ExecuteFilter runs one compiled predicate and returns the matching card
// id set. Zero rows is success with an empty set.
func (r *Repo) ExecuteFilter(ctx context.Context, pred db.Predicate) (map[int64]struct{}, error) {
	sql := "SELECT c.id FROM cards c WHERE " + pred.SQL

	rows, err := r.store.Query(ctx, sql, pred.Args...)
	if err != nil {
		return nil, fmt.Errorf("execute filter: %w", err)
	}
	defer rows.Close()

	ids := map[int64]struct{}{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("execute filter: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("execute filter: %w", err)
	}
	return ids, nil
}

// SearchNearest returns up to k cards ranked by ascending cosine distance
// to the query vector, ties broken by ascending card id. Delegates entirely
// to pgvector's native operator.
func (r *Repo) SearchNearest(ctx context.Context, vector []float32, k int) ([]domain.RankedCard, error) {
	rows, err := r.store.Query(ctx,
		`SELECT id, embedding <=> $1::vector AS distance
		 FROM cards
		 WHERE embedding IS NOT NULL
		 ORDER BY distance ASC, id ASC
		 LIMIT $2`,
		db.VectorParam(vector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("search nearest: %w", err)
	}
	defer rows.Close()

	hits := make([]domain.RankedCard, 0, k)
	for rows.Next() {
		var h domain.RankedCard
		if err := rows.Scan(&h.CardID, &h.Distance); err != nil {
			return nil, fmt.Errorf("search nearest: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search nearest: %w", err)
	}
	return hits, nil
}
