package minutesmind

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "minutesmind"
	metricsSubsystem = "sdk"
)

// sdkMetrics holds the collectors registered on the caller's registry.
type sdkMetrics struct {
	operations *prometheus.CounterVec   // operation, status
	duration   *prometheus.HistogramVec // operation
	files      *prometheus.CounterVec   // status: stored, skipped, failed
	returned   *prometheus.HistogramVec // operation: search, extract
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "operations_total",
			Help:      "SDK calls by operation and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "operation_duration_seconds",
			Help:      "SDK call duration in seconds.",
			// ingest runs over whole directories, so the tail is long
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"operation"}),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "ingest_files_total",
			Help:      "Note files handled by Ingest, by outcome.",
		}, []string{"status"}),
		returned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "chunks_returned",
			Help:      "Chunks returned per Search or Extract call.",
			Buckets:   []float64{0, 1, 3, 5, 10, 25, 50, 100},
		}, []string{"operation"}),
	}
	for _, err := range []error{
		registerOrReuse(reg, &m.operations),
		registerOrReuse(reg, &m.duration),
		registerOrReuse(reg, &m.files),
		registerOrReuse(reg, &m.returned),
	} {
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// registerOrReuse registers c, or swaps in the collector a previous client
// registered under the same name.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("minutesmind: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("minutesmind: metric already registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer reports SDK calls to the optional slog logger and prometheus registry.
// A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// done records the outcome of one call. attrs are appended to the log line.
func (o *observer) done(op string, start time.Time, err error, attrs ...any) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	args := append([]any{"op", op, "duration", dur}, attrs...)
	if err != nil {
		o.logger.Warn("minutesmind call failed", append(args, "error", err)...)
		return
	}
	o.logger.Debug("minutesmind call completed", args...)
}

// ingested counts the files of a finished run by status.
func (o *observer) ingested(r IngestReport) {
	if o == nil || o.metrics == nil {
		return
	}
	for status, n := range map[FileStatus]int{
		FileStored:  r.Stored,
		FileSkipped: r.Skipped,
		FileFailed:  r.Failed,
	} {
		if n > 0 {
			o.metrics.files.WithLabelValues(string(status)).Add(float64(n))
		}
	}
}

// returnedChunks records how many chunks a query produced.
func (o *observer) returnedChunks(op string, n int) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.returned.WithLabelValues(op).Observe(float64(n))
}
