package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	dombatch "github.com/kailas-cloud/minutesmind/internal/domain/batch"
	domchunk "github.com/kailas-cloud/minutesmind/internal/domain/chunk"
	"github.com/kailas-cloud/minutesmind/internal/domain/note"
	"github.com/kailas-cloud/minutesmind/internal/metrics"
)

// ErrNotScheduled marks files left out of a run after the store became unavailable.
var ErrNotScheduled = errors.New("not scheduled after store failure")

// Config holds orchestrator settings.
type Config struct {
	Workers      int
	EmbedTimeout time.Duration
	StoreTimeout time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// Request describes one ingestion run.
type Request struct {
	Root    string
	Rebuild bool
}

// Report lists per-file outcomes in discovery order.
type Report struct {
	Files   []dombatch.Result
	Stored  int
	Skipped int
	Failed  int
	Chunks  int
}

func newReport(results []dombatch.Result) Report {
	r := Report{Files: results}
	for _, f := range results {
		switch f.Status() {
		case dombatch.StatusStored:
			r.Stored++
			r.Chunks += f.Chunks()
		case dombatch.StatusSkipped:
			r.Skipped++
		case dombatch.StatusFailed:
			r.Failed++
		}
	}
	return r
}

// Service runs the ingestion pipeline: discover, load, infer date, chunk, embed, store.
type Service struct {
	repo     Repository
	embed    Embedder
	chunker  Chunker
	dates    DateInferrer
	discover DiscoverFunc
	load     LoadFunc
	cfg      Config
	logger   *zap.Logger
}

// New creates an ingestion service.
func New(
	repo Repository, embed Embedder, chunker Chunker, dates DateInferrer,
	discover DiscoverFunc, load LoadFunc, cfg Config, logger *zap.Logger,
) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	return &Service{
		repo: repo, embed: embed, chunker: chunker, dates: dates,
		discover: discover, load: load, cfg: cfg,
		logger: logger.Named("ingest"),
	}
}

// Run ingests every eligible file under req.Root.
// Count mismatches and store failures are reported per file and also fail the run.
func (s *Service) Run(ctx context.Context, req Request) (Report, error) {
	files, err := s.discover(req.Root)
	if err != nil {
		return Report{}, fmt.Errorf("discover: %w", err)
	}
	s.logger.Info("Discovered note files", zap.String("root", req.Root), zap.Int("files", len(files)))

	if req.Rebuild {
		if err := s.repo.Drop(ctx); err != nil {
			return Report{}, fmt.Errorf("rebuild: %w", err)
		}
		s.logger.Info("Dropped chunk index for rebuild")
	}

	return s.IngestFiles(ctx, files)
}

// IngestFiles ingests the given files on the worker pool.
func (s *Service) IngestFiles(ctx context.Context, files []note.File) (Report, error) {
	pool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return Report{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]dombatch.Result, len(files))
	var (
		wg      sync.WaitGroup
		stopped atomic.Bool
	)

	for i, f := range files {
		if stopped.Load() || ctx.Err() != nil {
			results[i] = dombatch.NewSkipped(f.RelPath, ErrNotScheduled)
			metrics.IngestFilesTotal.WithLabelValues(string(dombatch.StatusSkipped)).Inc()
			continue
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			r := s.ingestFile(ctx, f)
			results[i] = r
			if errors.Is(r.Err(), domain.ErrStoreUnavailable) {
				stopped.Store(true)
			}
		})
		if submitErr != nil {
			wg.Done()
			results[i] = dombatch.NewSkipped(f.RelPath, fmt.Errorf("submit: %w", submitErr))
		}
	}
	wg.Wait()

	report := newReport(results)
	s.logger.Info("Ingestion finished",
		zap.Int("files", len(files)),
		zap.Int("stored", report.Stored),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("chunks", report.Chunks),
	)

	return report, runError(ctx, results)
}

// runError joins the errors that fail a run: count mismatches and store failures.
// Load and decode problems only skip their file.
func runError(ctx context.Context, results []dombatch.Result) error {
	var errs []error
	for _, r := range results {
		if r.Status() == dombatch.StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %w", r.RelPath(), r.Err()))
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Service) ingestFile(ctx context.Context, f note.File) dombatch.Result {
	start := time.Now()
	log := s.logger.With(zap.String("path", f.RelPath))

	doc, err := s.load(f.AbsPath)
	if err != nil {
		log.Warn("Skipping unreadable file", zap.Error(err))
		metrics.IngestFilesTotal.WithLabelValues(string(dombatch.StatusSkipped)).Inc()
		return dombatch.NewSkipped(f.RelPath, err)
	}
	if doc.Replaced {
		log.Warn("Decoded with replacement characters", zap.Error(domain.ErrDecodeWarning))
	}

	date := s.dates.Infer(f.RelPath, doc.Text, doc.ModTime)
	docID, chunks := s.chunker.Chunk(f.RelPath, doc.Text, date)
	log = log.With(
		zap.String("meeting_date", date.String()),
		zap.String("doc_id", docID),
		zap.Int("chunks", len(chunks)),
	)

	fail := func(err error) dombatch.Result {
		log.Error("File not stored", zap.Error(err))
		metrics.IngestFilesTotal.WithLabelValues(string(dombatch.StatusFailed)).Inc()
		return dombatch.NewFailed(f.RelPath, docID, date, len(chunks), err)
	}

	vectors, err := s.embedChunks(ctx, f.RelPath, chunks)
	if err != nil {
		return fail(err)
	}

	records := make([]domchunk.Record, len(chunks))
	for i := range chunks {
		records[i] = domchunk.Record{Chunk: chunks[i], Vector: vectors[i]}
	}

	err = retryWithBackoff(ctx, s.cfg.MaxRetries+1, s.cfg.RetryDelay, s.cfg.StoreTimeout,
		func(ctx context.Context) error {
			return s.repo.Upsert(ctx, records)
		})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrStoreUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return fail(err)
	}

	duration := time.Since(start)
	metrics.IngestFilesTotal.WithLabelValues(string(dombatch.StatusStored)).Inc()
	metrics.IngestChunksTotal.Add(float64(len(chunks)))
	metrics.IngestFileDuration.Observe(duration.Seconds())
	log.Info("Stored file",
		zap.Int("embeddings", len(vectors)),
		zap.Duration("duration", duration),
	)

	return dombatch.NewStored(f.RelPath, docID, date, len(chunks))
}

// embedChunks makes one embedding call for all chunk texts of a file and
// checks that exactly one vector came back per chunk.
func (s *Service) embedChunks(ctx context.Context, relPath string, chunks []domchunk.Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	texts := domchunk.Texts(chunks)

	var res domain.BatchEmbeddingResult
	err := retryWithBackoff(ctx, s.cfg.MaxRetries+1, s.cfg.RetryDelay, s.cfg.EmbedTimeout,
		func(ctx context.Context) error {
			var err error
			res, err = s.embed.BatchEmbed(ctx, texts)
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", relPath, err)
	}
	if len(res.Embeddings) != len(chunks) {
		return nil, domain.NewChunkCountMismatch(relPath, len(chunks), len(res.Embeddings))
	}
	return res.Embeddings, nil
}
