package card

import (
	"context"

	"github.com/yz-create/magicsearch/internal/domain"
	domcard "github.com/yz-create/magicsearch/internal/domain/card"
)

// Repository defines the storage contract for card mutations.
type Repository interface {
	Get(ctx context.Context, id int64) (domcard.Card, error)
	Insert(ctx context.Context, c *domcard.Card) error
	Update(ctx context.Context, c *domcard.Card) error
	Delete(ctx context.Context, id int64) error
}

// Embedder vectorizes the canonical card text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
