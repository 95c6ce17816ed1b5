package chunk

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/kailas-cloud/minutesmind/internal/db"
	domchunk "github.com/kailas-cloud/minutesmind/internal/domain/chunk"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetAtomicFn  func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string, deleteDocs bool) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchKNNFn   func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	textSearch    bool
}

func (m *mockStore) HSetAtomic(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetAtomicFn != nil {
		return m.hsetAtomicFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name, deleteDocs)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SupportsTextSearch(_ context.Context) bool {
	return m.textSearch
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func testConfig() Config {
	return Config{
		KeyPrefix: "mm:",
		IndexName: "mm_chunks",
		HNSW:      HNSWConfig{M: 16, EFConstruct: 200},
	}
}

func testRecord(id string, index int, vec []float32) domchunk.Record {
	return domchunk.Record{
		Chunk: domchunk.New(domchunk.Params{
			DocumentID:  "doc-1",
			ChunkID:     id,
			SourceFile:  "2026/standup.md",
			MeetingDate: civil.Date{Year: 2026, Month: time.March, Day: 9},
			Index:       index,
			Text:        "text of " + id,
			CreatedAt:   time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
		}),
		Vector: vec,
	}
}
