package minutesmind

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/db"
	dbBadger "github.com/kailas-cloud/minutesmind/internal/db/badger"
	dbRedis "github.com/kailas-cloud/minutesmind/internal/db/redis"
	"github.com/kailas-cloud/minutesmind/internal/domain"
	dombatch "github.com/kailas-cloud/minutesmind/internal/domain/batch"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
	"github.com/kailas-cloud/minutesmind/internal/ingest/chunker"
	"github.com/kailas-cloud/minutesmind/internal/ingest/dates"
	"github.com/kailas-cloud/minutesmind/internal/ingest/discover"
	"github.com/kailas-cloud/minutesmind/internal/ingest/loader"
	chunkrepo "github.com/kailas-cloud/minutesmind/internal/repository/chunk"
	extractuc "github.com/kailas-cloud/minutesmind/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/minutesmind/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/minutesmind/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/minutesmind/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped out in tests.
type ingestUseCase interface {
	Run(ctx context.Context, req ingestuc.Request) (ingestuc.Report, error)
}

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
}

type extractUseCase interface {
	Extract(ctx context.Context, req *request.Request) (extractuc.Result, error)
}

// Client is the minutesmind SDK entry point.
type Client struct {
	store      db.Store
	ingestSvc  ingestUseCase
	searchSvc  searchUseCase
	extractSvc extractUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client and opens the store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.driver == "" {
		return nil, errors.New("minutesmind: store required (use WithBadger, WithInMemory, WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("minutesmind: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "badger":
		s, err := dbBadger.Open(dbBadger.Config{Path: cfg.path, InMemory: cfg.inMemory})
		if err != nil {
			return nil, fmt.Errorf("minutesmind: open badger store: %w", err)
		}
		return s, nil
	case "valkey", "redis":
		flavor := dbRedis.FlavorRedis
		if cfg.driver == "valkey" {
			flavor = dbRedis.FlavorValkey
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
			Flavor:   flavor,
		})
		if err != nil {
			return nil, fmt.Errorf("minutesmind: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("minutesmind: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	if cfg.maxChars == 0 {
		cfg.maxChars, cfg.overlapChars = 1400, 150
	}
	if cfg.keyPrefix == "" {
		cfg.keyPrefix = "minutesmind:"
	}
	if cfg.indexName == "" {
		cfg.indexName = "minutesmind_chunks"
	}
	if cfg.hnswM <= 0 {
		cfg.hnswM = 16
	}
	if cfg.hnswEF <= 0 {
		cfg.hnswEF = 200
	}

	ch, err := chunker.New(chunker.Options{MaxChars: cfg.maxChars, OverlapChars: cfg.overlapChars})
	if err != nil {
		return nil, fmt.Errorf("minutesmind: %w", err)
	}

	repo := chunkrepo.New(store, chunkrepo.Config{
		KeyPrefix: cfg.keyPrefix,
		IndexName: cfg.indexName,
		HNSW:      chunkrepo.HNSWConfig{M: cfg.hnswM, EFConstruct: cfg.hnswEF},
	})

	var emb domain.TextEmbedder = noopEmbedder{}
	var embCheck healthuc.EmbeddingChecker
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
		// Pass a nil interface, not a typed nil, when the embedder has no health check.
		if hc, ok := cfg.embedder.(domain.HealthChecker); ok {
			embCheck = hc
		}
	}

	var ext domain.Extractor = noopExtractor{}
	if cfg.extractor != nil {
		ext = &extractorAdapter{inner: cfg.extractor}
	}

	searchSvc := searchuc.New(repo, emb)
	ingestSvc := ingestuc.New(
		repo, emb, ch,
		dates.New(dates.Options{Location: cfg.location}),
		discover.Files, loader.Load,
		ingestuc.Config{Workers: cfg.workers},
		zap.NewNop(),
	)

	return &Client{
		store:      store,
		ingestSvc:  ingestSvc,
		searchSvc:  searchSvc,
		extractSvc: extractuc.New(searchSvc, ext),
		healthSvc:  healthuc.New(store, embCheck),
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.done("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ingest chunks, embeds and stores every .txt/.md file under root.
// With rebuild the existing index is dropped first; otherwise chunks are appended.
// The report is filled in even when err is non-nil.
func (c *Client) Ingest(ctx context.Context, root string, rebuild bool) (report IngestReport, err error) {
	start := time.Now()
	defer func() {
		c.obs.ingested(report)
		c.obs.done("ingest", start, err,
			"root", root, "rebuild", rebuild, "stored", report.Stored, "chunks", report.Chunks)
	}()

	r, err := c.ingestSvc.Run(ctx, ingestuc.Request{Root: root, Rebuild: rebuild})
	report = fromInternalReport(r)
	if err != nil {
		return report, fmt.Errorf("ingest: %w", err)
	}
	return report, nil
}

// Search returns the topK chunks most similar to query. topK 0 means 5.
func (c *Client) Search(ctx context.Context, query string, topK int) (hits []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.done("search", start, err, "top_k", topK, "hits", len(hits)) }()

	req, err := request.New(query, topK)
	if err != nil {
		return nil, err
	}
	results, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	c.obs.returnedChunks("search", len(results))
	return fromInternalResults(results), nil
}

// Extract retrieves the topK chunks for query and extracts typed spans from them.
func (c *Client) Extract(ctx context.Context, query string, topK int) (res ExtractResult, err error) {
	start := time.Now()
	defer func() { c.obs.done("extract", start, err, "top_k", topK, "spans", len(res.Spans)) }()

	req, err := request.New(query, topK)
	if err != nil {
		return ExtractResult{}, err
	}
	r, err := c.extractSvc.Extract(ctx, &req)
	if err != nil {
		return ExtractResult{}, fmt.Errorf("extract: %w", err)
	}
	c.obs.returnedChunks("extract", len(r.Sources))
	return ExtractResult{
		Query:   r.Query,
		Spans:   fromInternalSpans(r.Spans),
		Sources: fromInternalResults(r.Sources),
		Context: r.Context,
	}, nil
}

func fromInternalReport(r ingestuc.Report) IngestReport {
	out := IngestReport{
		Files:   make([]FileResult, len(r.Files)),
		Stored:  r.Stored,
		Skipped: r.Skipped,
		Failed:  r.Failed,
		Chunks:  r.Chunks,
	}
	for i, f := range r.Files {
		out.Files[i] = FileResult{
			Path:        f.RelPath(),
			DocumentID:  f.DocumentID(),
			MeetingDate: f.MeetingDate(),
			Chunks:      f.Chunks(),
			Status:      fileStatus(f.Status()),
			Err:         f.Err(),
		}
	}
	return out
}

func fileStatus(s dombatch.ItemStatus) FileStatus {
	switch s {
	case dombatch.StatusStored:
		return FileStored
	case dombatch.StatusFailed:
		return FileFailed
	default:
		return FileSkipped
	}
}

func fromInternalResults(results []result.Result) []SearchResult {
	out := make([]SearchResult, len(results))
	for i := range results {
		r := &results[i]
		meta := r.Metadata()
		out[i] = SearchResult{
			ID:          r.ID(),
			Score:       r.Score(),
			Text:        r.Text(),
			SourceFile:  stringField(meta, "source_file"),
			MeetingDate: stringField(meta, "meeting_date"),
			Metadata:    meta,
		}
	}
	return out
}

func stringField(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}
