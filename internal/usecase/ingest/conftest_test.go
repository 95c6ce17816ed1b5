package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	domchunk "github.com/kailas-cloud/minutesmind/internal/domain/chunk"
	"github.com/kailas-cloud/minutesmind/internal/domain/note"
	"github.com/kailas-cloud/minutesmind/internal/ingest/chunker"
	"github.com/kailas-cloud/minutesmind/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterIngestMetrics()
	os.Exit(m.Run())
}

// --- Fakes ---

type fakeRepo struct {
	mu       sync.Mutex
	upserted map[string][]domchunk.Record // by source file
	calls    int
	dropped  int
	err      error
	dropErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{upserted: make(map[string][]domchunk.Record)}
}

func (r *fakeRepo) Upsert(_ context.Context, records []domchunk.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	for _, rec := range records {
		r.upserted[rec.Chunk.SourceFile()] = append(r.upserted[rec.Chunk.SourceFile()], rec)
	}
	return nil
}

func (r *fakeRepo) Drop(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped++
	return r.dropErr
}

func (r *fakeRepo) stored(relPath string) []domchunk.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserted[relPath]
}

// fakeEmbedder returns one 2-d vector per text. Texts containing a marker in
// short are answered with one vector too few; failUntil fails the first N calls.
type fakeEmbedder struct {
	mu        sync.Mutex
	calls     int
	short     string
	failUntil int
	err       error
}

func (e *fakeEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	e.mu.Lock()
	e.calls++
	call := e.calls
	e.mu.Unlock()

	if call <= e.failUntil {
		return domain.BatchEmbeddingResult{}, e.err
	}
	vecs := make([][]float32, 0, len(texts))
	for range texts {
		vecs = append(vecs, []float32{0.6, 0.8})
	}
	if e.short != "" && strings.Contains(strings.Join(texts, " "), e.short) {
		vecs = vecs[:len(vecs)-1]
	}
	return domain.BatchEmbeddingResult{Embeddings: vecs}, nil
}

type fixedDates struct{ d civil.Date }

func (f fixedDates) Infer(string, string, time.Time) civil.Date { return f.d }

// memFS serves discover and load from a map of rel path -> text.
type memFS struct {
	order []string
	texts map[string]string
	bad   map[string]bool
}

func newMemFS(files ...string) *memFS {
	m := &memFS{texts: make(map[string]string), bad: make(map[string]bool)}
	for i := 0; i+1 < len(files); i += 2 {
		m.order = append(m.order, files[i])
		m.texts[files[i]] = files[i+1]
	}
	return m
}

func (m *memFS) discover(root string) ([]note.File, error) {
	if root == "missing" {
		return nil, fmt.Errorf("notes root %s: %w", root, domain.ErrNotFound)
	}
	out := make([]note.File, len(m.order))
	for i, rel := range m.order {
		out[i] = note.File{AbsPath: "/notes/" + rel, RelPath: rel}
	}
	return out, nil
}

func (m *memFS) load(path string) (note.Document, error) {
	rel := strings.TrimPrefix(path, "/notes/")
	if m.bad[rel] {
		return note.Document{}, errors.New("permission denied")
	}
	return note.Document{Text: m.texts[rel], ModTime: time.Unix(0, 0)}, nil
}

var testDate = civil.Date{Year: 2026, Month: 2, Day: 14}

func newTestService(t *testing.T, repo Repository, emb Embedder, fs *memFS, cfg Config) *Service {
	t.Helper()
	ch, err := chunker.New(chunker.Options{MaxChars: 100, OverlapChars: 10})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Millisecond
	}
	return New(repo, emb, ch, fixedDates{testDate}, fs.discover, fs.load, cfg, zap.NewNop())
}
