package card

import (
	"context"
	"errors"
	"testing"

	"github.com/yz-create/magicsearch/internal/domain"
	domcard "github.com/yz-create/magicsearch/internal/domain/card"
)

// --- Mocks ---

type mockRepo struct {
	inserted  *domcard.Card
	updated   *domcard.Card
	deletedID int64
	insertErr error
	updateErr error
	deleteErr error
}

func (m *mockRepo) Get(_ context.Context, _ int64) (domcard.Card, error) {
	return domcard.Card{}, domain.ErrNotFound
}

func (m *mockRepo) Insert(_ context.Context, c *domcard.Card) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	c.ID = 1
	m.inserted = c
	return nil
}

func (m *mockRepo) Update(_ context.Context, c *domcard.Card) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = c
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

type mockEmbedder struct {
	result  domain.EmbeddingResult
	err     error
	calls   int
	gotText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.gotText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

func validCard() domcard.Card {
	return domcard.Card{
		Name:      "Lightning Bolt",
		TypeLine:  "Instant",
		ManaCost:  "{R}",
		ManaValue: 1,
		Text:      "Lightning Bolt deals 3 damage to any target.",
	}
}

// --- Create ---

func TestCreate(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2, 3}}}
	svc := New(repo, embed, 3)

	c := validCard()
	if err := svc.Create(context.Background(), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ID != 1 {
		t.Errorf("expected assigned id, got %d", c.ID)
	}
	if len(c.Embedding) != 3 {
		t.Errorf("expected embedding set, got %v", c.Embedding)
	}
	if embed.gotText != c.EmbeddingText() {
		t.Errorf("embedded wrong text %q", embed.gotText)
	}
	if repo.inserted == nil {
		t.Error("expected insert call")
	}
}

func TestCreate_InvalidCard(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{}
	svc := New(repo, embed, 3)

	c := validCard()
	c.Name = ""
	err := svc.Create(context.Background(), &c)
	if !errors.Is(err, domain.ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard, got %v", err)
	}
	if embed.calls != 0 {
		t.Error("invalid card must not reach the provider")
	}
	if repo.inserted != nil {
		t.Error("invalid card must not reach the store")
	}
}

func TestCreate_ProviderFailureFailsWrite(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := New(repo, embed, 3)

	c := validCard()
	err := svc.Create(context.Background(), &c)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if repo.inserted != nil {
		t.Error("failed embedding must not store the card")
	}
}

func TestCreate_DimMismatch(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2}}}
	svc := New(repo, embed, 3)

	c := validCard()
	err := svc.Create(context.Background(), &c)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
	if repo.inserted != nil {
		t.Error("mismatched vector must not store the card")
	}
}

// --- Update ---

func TestUpdate_ReEmbeds(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2, 3}}}
	svc := New(repo, embed, 3)

	c := validCard()
	c.ID = 5
	if err := svc.Update(context.Background(), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.calls != 1 {
		t.Errorf("expected re-embedding on update, got %d calls", embed.calls)
	}
	if repo.updated == nil {
		t.Error("expected update call")
	}
}

func TestUpdate_RequiresID(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{}, 3)

	c := validCard()
	err := svc.Update(context.Background(), &c)
	if !errors.Is(err, domain.ErrInvalidCard) {
		t.Errorf("expected ErrInvalidCard for missing id, got %v", err)
	}
}

func TestUpdate_Missing(t *testing.T) {
	repo := &mockRepo{updateErr: domain.ErrNotFound}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2, 3}}}
	svc := New(repo, embed, 3)

	c := validCard()
	c.ID = 404
	err := svc.Update(context.Background(), &c)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// --- Delete ---

func TestDelete(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{}, 3)

	if err := svc.Delete(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletedID != 9 {
		t.Errorf("expected delete of 9, got %d", repo.deletedID)
	}
}

func TestDelete_Missing(t *testing.T) {
	repo := &mockRepo{deleteErr: domain.ErrNotFound}
	svc := New(repo, &mockEmbedder{}, 3)

	err := svc.Delete(context.Background(), 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
