package search

import (
	"context"

	"github.com/yz-create/magicsearch/internal/db"
	"github.com/yz-create/magicsearch/internal/domain"
	domcard "github.com/yz-create/magicsearch/internal/domain/card"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	ExecuteFilter(ctx context.Context, pred db.Predicate) (map[int64]struct{}, error)
	SearchNearest(ctx context.Context, vector []float32, k int) ([]domain.RankedCard, error)
}

// CardReader materializes card aggregates for result sets.
type CardReader interface {
	Get(ctx context.Context, id int64) (domcard.Card, error)
	GetByName(ctx context.Context, name string) ([]domcard.Card, error)
	GetMany(ctx context.Context, ids []int64) ([]domcard.Card, error)
}

// Embedder vectorizes the free-text query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
