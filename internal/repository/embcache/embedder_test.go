package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yz-create/magicsearch/internal/db"
	"github.com/yz-create/magicsearch/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

// --- Tests ---

func TestEmbed_MissThenHit(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.5, -1.25, 3},
		TotalTokens: 12,
	}}
	cached := New(inner, store, nil, zap.NewNop())

	first, err := cached.Embed(context.Background(), "some card text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 provider call, got %d", inner.calls)
	}
	if first.TotalTokens != 12 {
		t.Errorf("miss must report real token usage, got %d", first.TotalTokens)
	}
	if store.lastTTL != DefaultTTL {
		t.Errorf("expected ttl %s, got %s", DefaultTTL, store.lastTTL)
	}

	second, err := cached.Embed(context.Background(), "some card text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("hit must not call the provider, got %d calls", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("hit must report zero tokens, got %d", second.TotalTokens)
	}

	if len(second.Embedding) != len(first.Embedding) {
		t.Fatalf("vector length changed across cache: %d vs %d",
			len(second.Embedding), len(first.Embedding))
	}
	for i := range first.Embedding {
		if first.Embedding[i] != second.Embedding[i] {
			t.Errorf("vector[%d] changed across cache: %v vs %v",
				i, first.Embedding[i], second.Embedding[i])
		}
	}
}

func TestEmbed_DifferentTextsDifferentKeys(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	cached := New(inner, store, nil, zap.NewNop())

	if _, err := cached.Embed(context.Background(), "text a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cached.Embed(context.Background(), "text b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("expected 2 provider calls for distinct texts, got %d", inner.calls)
	}
	if len(store.data) != 2 {
		t.Errorf("expected 2 cache entries, got %d", len(store.data))
	}
}

func TestEmbed_StoreFailureFallsThrough(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("connection reset")
	store.setErr = errors.New("connection reset")

	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1, 2}}}
	cached := New(inner, store, nil, zap.NewNop())

	result, err := cached.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("cache failure must not fail the embed: %v", err)
	}
	if len(result.Embedding) != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	if inner.calls != 1 {
		t.Errorf("expected provider call, got %d", inner.calls)
	}
}

func TestEmbed_ProviderFailure(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	cached := New(inner, store, nil, zap.NewNop())

	_, err := cached.Embed(context.Background(), "text")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(store.data) != 0 {
		t.Error("failed embeds must not be cached")
	}
}

func TestEmbed_CorruptCacheEntryIgnored(t *testing.T) {
	store := newMockStore()
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}}}
	cached := New(inner, store, nil, zap.NewNop())

	// Seed a corrupt entry under the real key.
	key := cached.cacheKey("text")
	store.data[key] = []byte{1, 2, 3} // not a multiple of 4

	result, err := cached.Embed(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("corrupt entry must fall through to the provider, got %d calls", inner.calls)
	}
	if len(result.Embedding) != 1 {
		t.Errorf("unexpected result %+v", result)
	}
}
