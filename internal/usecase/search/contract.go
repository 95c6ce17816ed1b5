package search

import (
	"context"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
)

// Repository defines the storage contract for chunk search.
type Repository interface {
	Search(ctx context.Context, vector []float32, topK int) ([]result.Result, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
