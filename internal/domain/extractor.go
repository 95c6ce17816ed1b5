package domain

import (
	"context"

	"github.com/kailas-cloud/minutesmind/internal/domain/extraction"
)

// Extractor turns free text into typed spans.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]extraction.Span, error)
}
