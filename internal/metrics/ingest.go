package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion Prometheus metrics.
var (
	IngestFilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "minutesmind",
			Name:      "ingest_files_total",
			Help:      "Files processed by the ingestion pipeline",
		},
		[]string{"status"}, // stored / skipped / failed
	)

	IngestChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "minutesmind",
			Name:      "ingest_chunks_total",
			Help:      "Chunks stored in the vector store",
		},
	)

	IngestFileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "minutesmind",
			Name:      "ingest_file_duration_seconds",
			Help:      "Time to load, chunk, embed and store one file",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

var ingestMetricsRegistered bool

// RegisterIngestMetrics registers Prometheus ingestion metrics. Safe to call more than once.
func RegisterIngestMetrics() {
	if ingestMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestFilesTotal)
	prometheus.MustRegister(IngestChunksTotal)
	prometheus.MustRegister(IngestFileDuration)
	ingestMetricsRegistered = true
}
