package chunk

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/minutesmind/internal/db"
	domchunk "github.com/kailas-cloud/minutesmind/internal/domain/chunk"
)

// Hash field names. The vector lives in fieldEmbedding as little-endian float32 bytes.
const (
	fieldDocID       = "doc_id"
	fieldSourceFile  = "source_file"
	fieldMeetingDate = "meeting_date"
	fieldChunkIndex  = "chunk_index"
	fieldText        = "text"
	fieldCreatedAt   = "created_at"
	fieldTags        = "tags"
	fieldEmbedding   = "embedding"
)

var metadataFields = []string{
	fieldDocID, fieldSourceFile, fieldMeetingDate, fieldChunkIndex,
	fieldText, fieldCreatedAt, fieldTags,
}

// buildHashFields flattens a record into HSET fields.
func buildHashFields(rec *domchunk.Record) map[string]string {
	c := rec.Chunk
	return map[string]string{
		fieldDocID:       c.DocumentID(),
		fieldSourceFile:  c.SourceFile(),
		fieldMeetingDate: c.MeetingDate().String(),
		fieldChunkIndex:  strconv.Itoa(c.Index()),
		fieldText:        c.Text(),
		fieldCreatedAt:   c.CreatedAt().UTC().Format(time.RFC3339Nano),
		fieldTags:        strings.Join(c.Tags(), ","),
		fieldEmbedding:   string(db.VectorToBytes(rec.Vector)),
	}
}

// parseMetadata converts stored fields into result metadata.
// chunk_index is returned as an int; everything else stays a string.
func parseMetadata(fields map[string]string) map[string]any {
	m := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == fieldEmbedding {
			continue
		}
		if k == fieldChunkIndex {
			if n, err := strconv.Atoi(v); err == nil {
				m[k] = n
				continue
			}
		}
		m[k] = v
	}
	return m
}
