package extract

import (
	"context"

	"github.com/kailas-cloud/minutesmind/internal/domain/extraction"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
)

// Searcher retrieves the chunks relevant to a query.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

// Extractor turns free text into typed spans.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]extraction.Span, error)
}
