package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/config"
	"github.com/kailas-cloud/minutesmind/internal/db"
	dbBadger "github.com/kailas-cloud/minutesmind/internal/db/badger"
	dbRedis "github.com/kailas-cloud/minutesmind/internal/db/redis"
	"github.com/kailas-cloud/minutesmind/internal/ingest/chunker"
	"github.com/kailas-cloud/minutesmind/internal/ingest/dates"
	"github.com/kailas-cloud/minutesmind/internal/ingest/discover"
	"github.com/kailas-cloud/minutesmind/internal/ingest/loader"
	logpkg "github.com/kailas-cloud/minutesmind/internal/logger"
	"github.com/kailas-cloud/minutesmind/internal/metrics"
	chunkrepo "github.com/kailas-cloud/minutesmind/internal/repository/chunk"
	"github.com/kailas-cloud/minutesmind/internal/repository/embcache"
	"github.com/kailas-cloud/minutesmind/internal/transport/llm"
	openaiEmb "github.com/kailas-cloud/minutesmind/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/minutesmind/internal/usecase/embedding"
	extractuc "github.com/kailas-cloud/minutesmind/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/minutesmind/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/minutesmind/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/minutesmind/internal/usecase/search"
	"github.com/kailas-cloud/minutesmind/internal/version"
)

// app is the composition root shared by all commands.
type app struct {
	env      string
	cfg      config.Config
	logger   *zap.Logger
	store    db.Store
	embedder *embeddinguc.InstrumentedEmbedder
	chunks   *chunkrepo.Repo
}

// loadConfig reads --config or config/<env>.yaml.
func loadConfig() (string, config.Config, error) {
	env := flagEnv
	if env == "" {
		env = config.GetEnv()
	}
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return "", config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return env, cfg, nil
}

// newApp connects the store and assembles the embedder chain.
// cfg may carry command-line overrides; it is validated again here.
func newApp(ctx context.Context, env string, cfg config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting minutesmind",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	store, err := openStore(cfg.Database, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterIngestMetrics()

	a := &app{
		env:    env,
		cfg:    cfg,
		logger: logger,
		store:  store,
		chunks: chunkrepo.New(store, chunkrepo.Config{
			KeyPrefix: cfg.Storage.KeyPrefix,
			IndexName: cfg.Index.Name,
			HNSW: chunkrepo.HNSWConfig{
				M:           cfg.Index.HNSWM,
				EFConstruct: cfg.Index.HNSWEFConstruct,
			},
		}),
	}
	a.embedder = buildEmbedder(cfg.Embedding, cfg.Storage.KeyPrefix, store, logger)
	return a, nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}

func openStore(cfg config.DatabaseConfig, logger *zap.Logger) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverBadger:
		store, err = dbBadger.Open(dbBadger.Config{Path: cfg.Path, Logger: logger})
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
			Flavor:   dbRedis.FlavorRedis,
		})
	case config.DriverValkey:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
			Flavor:   dbRedis.FlavorValkey,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}
	return store, nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func buildEmbedder(
	cfg config.EmbeddingConfig, keyPrefix string, store db.KVStore, logger *zap.Logger,
) *embeddinguc.InstrumentedEmbedder {
	const provider = "openai"

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   provider,
		Logger:     logger,
	})

	cached := embcache.New(base, store, embcache.Options{
		KeyPrefix: keyPrefix,
		Model:     cfg.Model,
		TTL:       time.Duration(cfg.CacheTTL) * time.Second,
	}, metrics.EmbeddingCacheTotal, logger)

	return embeddinguc.NewInstrumentedEmbedder(cached, embeddinguc.Options{
		Provider:  provider,
		Model:     cfg.Model,
		BatchSize: cfg.BatchSize,
		RateLimit: cfg.RateLimit,
	}, logger)
}

func (a *app) searchService() *searchuc.Service {
	return searchuc.New(a.chunks, a.embedder)
}

func (a *app) extractService() (*extractuc.Service, error) {
	extractor, err := llm.New(llm.Config{
		BaseURL:     a.cfg.Extraction.BaseURL,
		APIKey:      a.cfg.Extraction.APIKey,
		Model:       a.cfg.Extraction.Model,
		Temperature: a.cfg.Extraction.Temperature,
		MaxAttempts: a.cfg.Extraction.MaxAttempts,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, err
	}
	return extractuc.New(a.searchService(), extractor), nil
}

func (a *app) healthService() *healthuc.Service {
	return healthuc.New(a.store, a.embedder)
}

func (a *app) ingestService() (*ingestuc.Service, error) {
	loc, err := a.cfg.Dates.Location()
	if err != nil {
		return nil, err
	}
	ch, err := chunker.New(chunker.Options{
		MaxChars:     a.cfg.Chunking.MaxChars,
		OverlapChars: a.cfg.Chunking.OverlapChars,
	})
	if err != nil {
		return nil, err
	}
	inferrer := dates.New(dates.Options{
		ContentLines: a.cfg.Dates.ContentLines,
		Location:     loc,
	})
	return ingestuc.New(
		a.chunks, a.embedder, ch, inferrer,
		discover.Files, loader.Load,
		ingestuc.Config{
			Workers:      a.cfg.Ingest.Workers,
			EmbedTimeout: time.Duration(a.cfg.Ingest.EmbedTimeoutSec) * time.Second,
			StoreTimeout: time.Duration(a.cfg.Ingest.StoreTimeoutSec) * time.Second,
			MaxRetries:   a.cfg.Ingest.MaxRetries,
		},
		a.logger,
	), nil
}
