package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing root directory or note file.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest signals malformed client input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidConfig signals inconsistent configuration values.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrDecodeWarning marks a file that contained malformed UTF-8. It is logged, never returned.
	ErrDecodeWarning = errors.New("malformed utf-8 replaced")
	// ErrDateInferenceExhausted would mean no date strategy produced a value.
	// The mtime strategy always succeeds, so callers never observe it.
	ErrDateInferenceExhausted = errors.New("date inference exhausted")
	// ErrChunkCountMismatch signals that the embedding service returned a different
	// number of vectors than chunks submitted.
	ErrChunkCountMismatch = errors.New("embedding count does not match chunk count")
	// ErrStoreUnavailable signals an unreachable vector store.
	ErrStoreUnavailable = errors.New("vector store unavailable")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding quota on the provider side.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrExtractionFailed signals that the structured extractor failed or returned garbage.
	ErrExtractionFailed = errors.New("extraction failed")
)

// ChunkCountMismatchError wraps ErrChunkCountMismatch with the offending counts.
type ChunkCountMismatchError struct {
	SourceFile string
	Chunks     int
	Vectors    int
}

func (e *ChunkCountMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: %d vectors for %d chunks",
		ErrChunkCountMismatch.Error(), e.SourceFile, e.Vectors, e.Chunks)
}

func (e *ChunkCountMismatchError) Unwrap() error { return ErrChunkCountMismatch }

// NewChunkCountMismatch creates a count mismatch error for a source file.
func NewChunkCountMismatch(sourceFile string, chunks, vectors int) error {
	return &ChunkCountMismatchError{SourceFile: sourceFile, Chunks: chunks, Vectors: vectors}
}
