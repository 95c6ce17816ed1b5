package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/minutesmind/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 5
	MaxTopK        = 100
)

// Request is a validated search or extraction query.
type Request struct {
	query string
	topK  int
}

// New validates search parameters. topK 0 means DefaultTopK.
func New(query string, topK int) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK < 1 || topK > MaxTopK {
		return Request{}, fmt.Errorf("%w: top_k must be between 1 and %d, got %d",
			domain.ErrInvalidRequest, MaxTopK, topK)
	}
	return Request{query: query, topK: topK}, nil
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// TopK returns the number of chunks to retrieve.
func (r *Request) TopK() int { return r.topK }
