package chunk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kailas-cloud/minutesmind/internal/db"
	"github.com/kailas-cloud/minutesmind/internal/domain"
	domchunk "github.com/kailas-cloud/minutesmind/internal/domain/chunk"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
)

// store is the consumer interface for chunk persistence (ISP).
type store interface {
	HSetAtomic(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SupportsTextSearch(ctx context.Context) bool
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSWConfig holds HNSW index tuning parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Config holds key layout and index settings.
type Config struct {
	KeyPrefix string
	IndexName string
	HNSW      HNSWConfig
}

// Repo stores chunk records as hashes under one vector index.
type Repo struct {
	store store
	cfg   Config

	mu    sync.Mutex
	ready bool
}

// New creates a chunk repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// Upsert writes all records or none of them. Chunk ids are the keys, so
// repeating an upsert overwrites rather than duplicates.
func (r *Repo) Upsert(ctx context.Context, records []domchunk.Record) error {
	if len(records) == 0 {
		return nil
	}

	dim := len(records[0].Vector)
	if dim == 0 {
		return fmt.Errorf("record %s has no vector: %w", records[0].Chunk.ID(), domain.ErrVectorDimMismatch)
	}
	items := make([]db.HashSetItem, 0, len(records))
	for i := range records {
		if len(records[i].Vector) != dim {
			return fmt.Errorf("record %s has dim %d, want %d: %w",
				records[i].Chunk.ID(), len(records[i].Vector), dim, domain.ErrVectorDimMismatch)
		}
		items = append(items, db.HashSetItem{
			Key:    r.chunkKey(records[i].Chunk.ID()),
			Fields: buildHashFields(&records[i]),
		})
	}

	if err := r.ensureIndex(ctx, dim); err != nil {
		return err
	}

	if err := r.store.HSetAtomic(ctx, items); err != nil {
		return fmt.Errorf("upsert %d chunks: %w: %w", len(items), domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Search returns the topK nearest chunks, best first. An index that does
// not exist yet means nothing has been ingested, so the result is empty.
func (r *Repo) Search(ctx context.Context, vector []float32, topK int) ([]result.Result, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		VectorField:  fieldEmbedding,
		Vector:       vector,
		K:            topK,
		ReturnFields: metadataFields,
	})
	if errors.Is(err, db.ErrIndexNotFound) {
		return []result.Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w: %w", r.cfg.IndexName, domain.ErrStoreUnavailable, err)
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		results = append(results, result.New(r.chunkID(e.Key), e.Score, parseMetadata(e.Fields)))
	}
	return results, nil
}

// Drop removes the index together with every stored chunk.
func (r *Repo) Drop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.DropIndex(ctx, r.cfg.IndexName, true)
	if err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w: %w", r.cfg.IndexName, domain.ErrStoreUnavailable, err)
	}
	r.ready = false
	return nil
}

// ensureIndex creates the index on first use with the dimension of the first vector.
func (r *Repo) ensureIndex(ctx context.Context, dim int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ready {
		return nil
	}

	exists, err := r.store.IndexExists(ctx, r.cfg.IndexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w: %w", r.cfg.IndexName, domain.ErrStoreUnavailable, err)
	}
	if !exists {
		def, err := buildIndex(r.cfg, dim, r.store.SupportsTextSearch(ctx))
		if err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w: %w", r.cfg.IndexName, domain.ErrStoreUnavailable, err)
		}
	}

	r.ready = true
	return nil
}

func (r *Repo) chunkPrefix() string {
	return r.cfg.KeyPrefix + "chunk:"
}

func (r *Repo) chunkKey(id string) string {
	return r.chunkPrefix() + id
}

func (r *Repo) chunkID(key string) string {
	return strings.TrimPrefix(key, r.chunkPrefix())
}
