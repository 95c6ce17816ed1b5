package minutesmind

import "github.com/kailas-cloud/minutesmind/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrChunkCountMismatch     = domain.ErrChunkCountMismatch
	ErrStoreUnavailable       = domain.ErrStoreUnavailable
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingQuotaExceeded = domain.ErrEmbeddingQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrExtractionFailed       = domain.ErrExtractionFailed
)
