// Package search implements card lookup, filter combination, and semantic
// similarity search.
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/yz-create/magicsearch/internal/db"
	"github.com/yz-create/magicsearch/internal/domain"
	domcard "github.com/yz-create/magicsearch/internal/domain/card"
	"github.com/yz-create/magicsearch/internal/domain/filter"
)

// DefaultK is the number of semantic search results when the caller passes none.
const DefaultK = 5

// MaxK caps semantic search result counts.
const MaxK = 100

// Result is a semantic search hit with its materialized card.
type Result struct {
	Card     domcard.Card
	Distance float64
}

// Service handles card search: by id, by name, by filter list, by free text.
type Service struct {
	repo      Repository
	cards     CardReader
	embed     Embedder
	vectorDim int
}

// New creates a search service. vectorDim is the stored embedding
// dimensionality; query vectors must match it.
func New(repo Repository, cards CardReader, embed Embedder, vectorDim int) *Service {
	return &Service{repo: repo, cards: cards, embed: embed, vectorDim: vectorDim}
}

// SearchByID returns the full aggregate or domain.ErrNotFound.
func (s *Service) SearchByID(ctx context.Context, id int64) (domcard.Card, error) {
	c, err := s.cards.Get(ctx, id)
	if err != nil {
		return domcard.Card{}, fmt.Errorf("search by id %d: %w", id, err)
	}
	return c, nil
}

// SearchByName returns every card with the exact name. An unknown name is
// domain.ErrNotFound; a name is either present or absent, unlike filter
// searches where an empty list is a valid answer.
func (s *Service) SearchByName(ctx context.Context, name string) ([]domcard.Card, error) {
	if name == "" {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, "name is required")
	}
	cards, err := s.cards.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search by name %q: %w", name, err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("card %q: %w", name, domain.ErrNotFound)
	}
	return cards, nil
}

// SearchByFilters returns the cards satisfying every filter (set
// intersection). All filters are compiled before the first store call, so
// an invalid filter costs zero round trips. Execution follows the
// caller-supplied order with a short-circuit on an empty running set; the
// result is order-independent.
func (s *Service) SearchByFilters(ctx context.Context, filters []filter.Filter) ([]domcard.Card, error) {
	if len(filters) == 0 {
		return nil, domain.NewValidationError(domain.ErrInvalidInput,
			"at least one filter is required")
	}

	preds := make([]db.Predicate, len(filters))
	for i, f := range filters {
		pred, err := db.CompileFilter(f)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		preds[i] = pred
	}

	running, err := s.repo.ExecuteFilter(ctx, preds[0])
	if err != nil {
		return nil, fmt.Errorf("filter 0: %w", err)
	}

	for i := 1; i < len(preds); i++ {
		if len(running) == 0 {
			break
		}
		ids, err := s.repo.ExecuteFilter(ctx, preds[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		for id := range running {
			if _, ok := ids[id]; !ok {
				delete(running, id)
			}
		}
	}

	sorted := make([]int64, 0, len(running))
	for id := range running {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	cards, err := s.cards.GetMany(ctx, sorted)
	if err != nil {
		return nil, fmt.Errorf("materialize results: %w", err)
	}
	return cards, nil
}

// SemanticSearch embeds the query text and returns the k nearest cards by
// cosine distance, ascending. An empty catalog yields an empty list, never
// an error; provider failure surfaces immediately.
func (s *Service) SemanticSearch(ctx context.Context, query string, k int) ([]Result, error) {
	if query == "" {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, "query is required")
	}
	if k <= 0 {
		k = DefaultK
	}
	if k > MaxK {
		k = MaxK
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if s.vectorDim > 0 && len(embResult.Embedding) != s.vectorDim {
		return nil, fmt.Errorf(
			"query vector dimension mismatch: got %d, want %d: %w",
			len(embResult.Embedding), s.vectorDim, domain.ErrVectorDimMismatch,
		)
	}

	hits, err := s.repo.SearchNearest(ctx, embResult.Embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search nearest: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		c, err := s.cards.Get(ctx, hit.CardID)
		if err != nil {
			return nil, fmt.Errorf("materialize card %d: %w", hit.CardID, err)
		}
		results = append(results, Result{Card: c, Distance: hit.Distance})
	}
	return results, nil
}
