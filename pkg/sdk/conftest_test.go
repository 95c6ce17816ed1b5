package minutesmind

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"unicode"
)

// vocabulary gives every test keyword its own dimension; everything else lands in the last one.
var vocabulary = []string{"budget", "spend", "launch", "ship", "friday", "changelog"}

type keywordEmbedder struct {
	calls atomic.Int32
	err   error
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	e.calls.Add(1)
	if e.err != nil {
		return EmbeddingResult{}, e.err
	}
	v := make([]float32, len(vocabulary)+1)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		idx := len(vocabulary)
		for i, k := range vocabulary {
			if w == k {
				idx = i
				break
			}
		}
		v[idx]++
	}
	return EmbeddingResult{Embedding: v, PromptTokens: len(words), TotalTokens: len(words)}, nil
}

// batchKeywordEmbedder also implements BatchEmbedder.
type batchKeywordEmbedder struct {
	keywordEmbedder
	batches atomic.Int32
}

func (e *batchKeywordEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	e.batches.Add(1)
	out := BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, t := range texts {
		r, err := e.Embed(ctx, t)
		if err != nil {
			return BatchEmbeddingResult{}, err
		}
		out.Embeddings[i] = r.Embedding
		out.TotalTokens += r.TotalTokens
	}
	return out, nil
}

type fakeExtractor struct {
	spans []Span
	err   error
	input string
}

func (f *fakeExtractor) Extract(_ context.Context, text string) ([]Span, error) {
	f.input = text
	return f.spans, f.err
}

func writeNotes(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

var testNotes = map[string]string{
	"2024-03-05-launch.md": "# Launch sync\n\nDecision: ship v2 on Friday.\n\nAlex will update the changelog.",
	"2024-03-12-budget.txt": "Budget review.\n\nMarketing spend is over budget by ten percent.",
	"ignored.pdf":           "not a note",
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithInMemory(), WithWorkers(1)}
	c, err := New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}
