package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIngestMetrics_Idempotent(t *testing.T) {
	RegisterIngestMetrics()
	RegisterIngestMetrics()

	before := testutil.ToFloat64(IngestFilesTotal.WithLabelValues("stored"))
	IngestFilesTotal.WithLabelValues("stored").Inc()
	if got := testutil.ToFloat64(IngestFilesTotal.WithLabelValues("stored")); got != before+1 {
		t.Errorf("ingest_files_total{stored} = %v, want %v", got, before+1)
	}
}

func TestRegisterEmbeddingMetrics_Idempotent(t *testing.T) {
	RegisterEmbeddingMetrics()
	RegisterEmbeddingMetrics()

	EmbeddingCacheTotal.WithLabelValues("hit").Inc()
	if n := testutil.CollectAndCount(EmbeddingCacheTotal); n < 1 {
		t.Errorf("expected at least one cache series, got %d", n)
	}
}
