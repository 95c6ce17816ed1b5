package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
)

// --- Mocks ---

type mockRepo struct {
	results  []result.Result
	err      error
	lastVec  []float32
	lastTopK int
}

func (m *mockRepo) Search(_ context.Context, vector []float32, topK int) ([]result.Result, error) {
	m.lastVec = vector
	m.lastTopK = topK
	return m.results, m.err
}

type mockEmbedder struct {
	vec    []float32
	tokens int
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.tokens}, m.err
}

func newRequest(t *testing.T, query string, topK int) *request.Request {
	t.Helper()
	r, err := request.New(query, topK)
	if err != nil {
		t.Fatal(err)
	}
	return &r
}

// --- Tests ---

func TestSearch_Success(t *testing.T) {
	repo := &mockRepo{results: []result.Result{
		result.New("c1", 0.9, map[string]any{"text": "ship on friday"}),
		result.New("c2", 0.4, map[string]any{"text": "lunch"}),
	}}
	emb := &mockEmbedder{vec: []float32{0.6, 0.8}, tokens: 4}
	svc := New(repo, emb)

	ctx, usage := domain.NewContextWithUsage(context.Background())
	results, err := svc.Search(ctx, newRequest(t, "release", 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0].ID() != "c1" {
		t.Errorf("unexpected results %+v", results)
	}
	if repo.lastTopK != 3 || len(repo.lastVec) != 2 {
		t.Errorf("repo called with topK=%d vec=%v", repo.lastTopK, repo.lastVec)
	}
	if usage.TotalTokens() != 4 {
		t.Errorf("expected 4 tokens recorded, got %d", usage.TotalTokens())
	}
}

func TestSearch_EmbedError(t *testing.T) {
	repo := &mockRepo{}
	emb := &mockEmbedder{err: domain.ErrEmbeddingProviderError}

	_, err := New(repo, emb).Search(context.Background(), newRequest(t, "q", 0))
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if repo.lastVec != nil {
		t.Error("repo must not be called when embedding fails")
	}
}

func TestSearch_RepoError(t *testing.T) {
	repo := &mockRepo{err: domain.ErrStoreUnavailable}
	emb := &mockEmbedder{vec: []float32{1}}

	_, err := New(repo, emb).Search(context.Background(), newRequest(t, "q", 0))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSearch_Empty(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{vec: []float32{1}})

	results, err := svc.Search(context.Background(), newRequest(t, "q", 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
