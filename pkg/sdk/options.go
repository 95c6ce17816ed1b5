package minutesmind

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "badger", "valkey" or "redis"
	path     string
	inMemory bool
	addrs    []string
	password string

	embedder  Embedder
	extractor Extractor

	maxChars     int
	overlapChars int
	workers      int
	location     *time.Location
	keyPrefix    string
	indexName    string
	hnswM        int
	hnswEF       int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBadger stores chunks in an embedded badger database at path.
func WithBadger(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "badger"
		c.path = path
		c.inMemory = false
	})
}

// WithInMemory keeps chunks in an in-memory badger database. Useful for tests.
func WithInMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "badger"
		c.inMemory = true
	})
}

// WithValkey configures the client to connect to a Valkey instance with valkey-search.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis 8+ instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider. Required.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithExtractor sets the structured extractor used by Extract.
func WithExtractor(x Extractor) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = x
	})
}

// WithChunking sets the chunk window in characters.
// Defaults: maxChars=1400, overlapChars=150.
func WithChunking(maxChars, overlapChars int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxChars = maxChars
		c.overlapChars = overlapChars
	})
}

// WithWorkers sets how many files are ingested in parallel. Default: 4.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithLocation sets the timezone used to read meeting dates off timestamps.
// Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return optionFunc(func(c *clientConfig) {
		c.location = loc
	})
}

// WithIndex overrides the key prefix and index name.
// Defaults: "minutesmind:" and "minutesmind_chunks".
func WithIndex(keyPrefix, indexName string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = keyPrefix
		c.indexName = indexName
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEF = efConstruct
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
