package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/extraction"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
)

type mockSearcher struct {
	results []result.Result
	err     error
}

func (m *mockSearcher) Search(_ context.Context, _ *request.Request) ([]result.Result, error) {
	return m.results, m.err
}

type mockExtractor struct {
	spans []extraction.Span
	err   error
	input string
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, text string) ([]extraction.Span, error) {
	m.calls++
	m.input = text
	return m.spans, m.err
}

func newRequest(t *testing.T) *request.Request {
	t.Helper()
	r, err := request.New("what did we decide?", 2)
	if err != nil {
		t.Fatal(err)
	}
	return &r
}

func TestExtract_JoinsChunkTexts(t *testing.T) {
	search := &mockSearcher{results: []result.Result{
		result.New("c1", 0.9, map[string]any{"text": "Decision: ship Friday."}),
		result.New("c2", 0.7, map[string]any{"text": "Risk: QA is short-staffed."}),
	}}
	ext := &mockExtractor{spans: []extraction.Span{{Class: extraction.ClassDecision, Text: "ship Friday."}}}

	res, err := New(search, ext).Extract(context.Background(), newRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Decision: ship Friday.\n\nRisk: QA is short-staffed."
	if ext.input != want || res.Context != want {
		t.Errorf("extractor input = %q, want %q", ext.input, want)
	}
	if res.Query != "what did we decide?" {
		t.Errorf("Query = %q", res.Query)
	}
	if len(res.Spans) != 1 || len(res.Sources) != 2 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestExtract_NoChunksSkipsExtractor(t *testing.T) {
	ext := &mockExtractor{}

	res, err := New(&mockSearcher{}, ext).Extract(context.Background(), newRequest(t))
	if err != nil {
		t.Fatal(err)
	}
	if ext.calls != 0 {
		t.Error("extractor must not run on empty context")
	}
	if res.Spans == nil || len(res.Spans) != 0 {
		t.Errorf("expected empty, non-nil spans, got %#v", res.Spans)
	}
}

func TestExtract_SearchError(t *testing.T) {
	search := &mockSearcher{err: domain.ErrStoreUnavailable}

	_, err := New(search, &mockExtractor{}).Extract(context.Background(), newRequest(t))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestExtract_ExtractorError(t *testing.T) {
	search := &mockSearcher{results: []result.Result{result.New("c1", 1, map[string]any{"text": "x"})}}
	ext := &mockExtractor{err: domain.ErrExtractionFailed}

	_, err := New(search, ext).Extract(context.Background(), newRequest(t))
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}
