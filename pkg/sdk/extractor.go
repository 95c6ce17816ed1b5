package minutesmind

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/extraction"
)

// Extractor finds typed spans in text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Span, error)
}

// extractorAdapter wraps a public Extractor to satisfy domain.Extractor.
type extractorAdapter struct {
	inner Extractor
}

func (a *extractorAdapter) Extract(ctx context.Context, text string) ([]extraction.Span, error) {
	spans, err := a.inner.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	out := make([]extraction.Span, 0, len(spans))
	for _, s := range spans {
		class, err := extraction.ParseClass(s.Type)
		if err != nil {
			continue
		}
		out = append(out, extraction.Span{
			Class:      class,
			Text:       s.Text,
			StartChar:  s.StartChar,
			EndChar:    s.EndChar,
			Attributes: s.Attributes,
		})
	}
	return out, nil
}

type noopExtractor struct{}

func (noopExtractor) Extract(context.Context, string) ([]extraction.Span, error) {
	return nil, errors.New("minutesmind: extractor not configured (use WithExtractor)")
}

func fromInternalSpans(spans []extraction.Span) []Span {
	out := make([]Span, len(spans))
	for i, s := range spans {
		out[i] = Span{
			Type:       string(s.Class),
			Text:       s.Text,
			StartChar:  s.StartChar,
			EndChar:    s.EndChar,
			Attributes: s.Attributes,
		}
	}
	return out
}
