package chi

import (
	"context"

	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
	extractuc "github.com/kailas-cloud/minutesmind/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/minutesmind/internal/usecase/health"
)

// Searcher runs semantic search.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

// Extractor runs retrieval plus structured extraction.
type Extractor interface {
	Extract(ctx context.Context, req *request.Request) (extractuc.Result, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
