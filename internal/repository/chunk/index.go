package chunk

import (
	"github.com/kailas-cloud/minutesmind/internal/db"
)

// buildIndex describes the chunk index: metadata as TAG/NUMERIC, the text
// as TEXT when the backend supports it, the embedding as HNSW/COSINE.
func buildIndex(cfg Config, dim int, textSearchEnabled bool) (*db.IndexDefinition, error) {
	b := db.NewIndex(cfg.IndexName).
		Prefix(cfg.KeyPrefix+"chunk:").
		Tag(fieldDocID).
		Tag(fieldSourceFile).
		Tag(fieldMeetingDate).
		Numeric(fieldChunkIndex)
	if textSearchEnabled {
		b = b.Text(fieldText)
	}
	return b.VectorHNSW(fieldEmbedding, dim, db.DistanceCosine, cfg.HNSW.M, cfg.HNSW.EFConstruct).Build()
}
