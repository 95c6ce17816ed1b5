package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/minutesmind/internal/domain/extraction"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
)

// contextSeparator joins retrieved chunk texts into the extractor input.
const contextSeparator = "\n\n"

// Result is the structured answer to a query.
// Span offsets refer to Context, the joined chunk texts.
type Result struct {
	Query   string
	Spans   []extraction.Span
	Sources []result.Result
	Context string
}

// Service retrieves relevant chunks and extracts decisions, actions and risks from them.
type Service struct {
	search    Searcher
	extractor Extractor
}

// New creates an extraction service.
func New(search Searcher, extractor Extractor) *Service {
	return &Service{search: search, extractor: extractor}
}

// Extract searches the top chunks for req and runs the extractor over their joined text.
// The extractor is not called when no chunk text was found.
func (s *Service) Extract(ctx context.Context, req *request.Request) (Result, error) {
	sources, err := s.search.Search(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	texts := make([]string, len(sources))
	for i := range sources {
		texts[i] = sources[i].Text()
	}
	joined := strings.Join(texts, contextSeparator)

	out := Result{
		Query:   req.Query(),
		Spans:   []extraction.Span{},
		Sources: sources,
		Context: joined,
	}
	if strings.TrimSpace(joined) == "" {
		return out, nil
	}

	spans, err := s.extractor.Extract(ctx, joined)
	if err != nil {
		return Result{}, fmt.Errorf("extract: %w", err)
	}
	if spans != nil {
		out.Spans = spans
	}
	return out, nil
}
