// Package badger implements db.Store on an embedded BadgerDB. Hashes are
// JSON-encoded field maps, index definitions live under a reserved prefix,
// and KNN search is an exact cosine scan over the index prefixes.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const indexDefPrefix = "\x00index:"

// Config holds embedded store settings.
type Config struct {
	Path     string
	InMemory bool
	Logger   *zap.Logger
}

// Store implements db.Store on top of BadgerDB.
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// zapAdapter adapts zap to the badger.Logger interface.
type zapAdapter struct {
	l *zap.SugaredLogger
}

var _ badger.Logger = (*zapAdapter)(nil)

func (a *zapAdapter) Errorf(msg string, args ...any)   { a.l.Errorf(msg, args...) }
func (a *zapAdapter) Warningf(msg string, args ...any) { a.l.Warnf(msg, args...) }

// badger reports compaction and replay progress at info level.
func (a *zapAdapter) Infof(msg string, args ...any)  { a.l.Debugf(msg, args...) }
func (a *zapAdapter) Debugf(msg string, args ...any) { a.l.Debugf(msg, args...) }

// Open opens (creating if needed) a badger database.
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		info, err := os.Stat(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("stat data dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", cfg.Path)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts.Logger = &zapAdapter{l: logger.Named("badger").Sugar()}
	opts.Compression = options.None

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: bdb, logger: logger}, nil
}

// Ping reports whether the database is open.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if s.db.IsClosed() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("badger close failed", zap.Error(err))
	}
}

// WaitForReady returns once Ping succeeds. An opened badger is ready immediately.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

func (s *Store) guard(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	if s.db.IsClosed() {
		return &db.Error{Op: op, Err: db.ErrClosed}
	}
	return nil
}
