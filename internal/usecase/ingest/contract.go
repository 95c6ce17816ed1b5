package ingest

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	domchunk "github.com/kailas-cloud/minutesmind/internal/domain/chunk"
	"github.com/kailas-cloud/minutesmind/internal/domain/note"
)

// Repository stores chunk records.
type Repository interface {
	Upsert(ctx context.Context, records []domchunk.Record) error
	Drop(ctx context.Context) error
}

// Embedder vectorizes chunk texts in order.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Chunker cuts a document into chunks.
type Chunker interface {
	Chunk(sourceFile, text string, meetingDate civil.Date) (string, []domchunk.Chunk)
}

// DateInferrer derives the meeting date of a document.
type DateInferrer interface {
	Infer(relPath, text string, modTime time.Time) civil.Date
}

// DiscoverFunc lists eligible files under root in discovery order.
type DiscoverFunc func(root string) ([]note.File, error)

// LoadFunc reads a note file into normalized text.
type LoadFunc func(path string) (note.Document, error)
