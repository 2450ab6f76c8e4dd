// Package card handles card CRUD with automatic vectorization.
package card

import (
	"context"
	"fmt"

	"github.com/yz-create/magicsearch/internal/domain"
	domcard "github.com/yz-create/magicsearch/internal/domain/card"
)

// Service handles card mutations. Every write carries an embedding computed
// from the card's canonical text; a failing provider fails the write rather
// than storing a zero vector.
type Service struct {
	repo  Repository
	embed Embedder
	dim   int
}

// New creates a card service. dim is the stored embedding dimensionality.
func New(repo Repository, embed Embedder, dim int) *Service {
	return &Service{repo: repo, embed: embed, dim: dim}
}

// Create validates, embeds, and inserts the aggregate in one transaction.
// Sets c.ID on success.
func (s *Service) Create(ctx context.Context, c *domcard.Card) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.vectorize(ctx, c); err != nil {
		return err
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// Update validates, re-embeds, and rewrites the aggregate. The embedding is
// always recomputed; the cache layer makes unchanged canonical text a no-op
// against the provider.
func (s *Service) Update(ctx context.Context, c *domcard.Card) error {
	if c.ID == 0 {
		return fmt.Errorf("%w: card id is required", domain.ErrInvalidCard)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.vectorize(ctx, c); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("update card %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes the aggregate; join rows cascade with it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	return nil
}

func (s *Service) vectorize(ctx context.Context, c *domcard.Card) error {
	result, err := s.embed.Embed(ctx, c.EmbeddingText())
	if err != nil {
		return fmt.Errorf("vectorize card: %w", err)
	}
	if s.dim > 0 && len(result.Embedding) != s.dim {
		return fmt.Errorf(
			"vector dimension mismatch: got %d, want %d: %w",
			len(result.Embedding), s.dim, domain.ErrVectorDimMismatch,
		)
	}
	c.Embedding = result.Embedding
	return nil
}
