package chunk

import (
	"time"

	"cloud.google.com/go/civil"
)

// Chunk is the unit of retrieval (immutable value object).
// All chunks cut from one document in one ingestion pass share a document ID.
type Chunk struct {
	documentID  string
	chunkID     string
	sourceFile  string
	meetingDate civil.Date
	index       int
	text        string
	createdAt   time.Time
	tags        []string
}

// Params groups the values a chunk is stamped with.
type Params struct {
	DocumentID  string
	ChunkID     string
	SourceFile  string
	MeetingDate civil.Date
	Index       int
	Text        string
	CreatedAt   time.Time
	Tags        []string
}

// New creates a Chunk. Tags are copied; nil tags become an empty set.
func New(p Params) Chunk {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	return Chunk{
		documentID:  p.DocumentID,
		chunkID:     p.ChunkID,
		sourceFile:  p.SourceFile,
		meetingDate: p.MeetingDate,
		index:       p.Index,
		text:        p.Text,
		createdAt:   p.CreatedAt,
		tags:        tags,
	}
}

// DocumentID returns the identifier shared by every chunk of the same document.
func (c *Chunk) DocumentID() string { return c.documentID }

// ID returns the globally unique chunk identifier, used as the upsert key.
func (c *Chunk) ID() string { return c.chunkID }

// SourceFile returns the root-relative path of the note file.
func (c *Chunk) SourceFile() string { return c.sourceFile }

// MeetingDate returns the inferred meeting date of the document.
func (c *Chunk) MeetingDate() civil.Date { return c.meetingDate }

// Index returns the 0-based position within the document.
func (c *Chunk) Index() int { return c.index }

// Text returns the trimmed chunk text.
func (c *Chunk) Text() string { return c.text }

// CreatedAt returns the ingestion timestamp shared by the document's chunks.
func (c *Chunk) CreatedAt() time.Time { return c.createdAt }

// Tags returns the chunk tags. Currently always empty.
func (c *Chunk) Tags() []string { return c.tags }

// Record pairs a chunk with its embedding vector for storage.
type Record struct {
	Chunk  Chunk
	Vector []float32
}

// Texts returns chunk texts in chunk order.
func Texts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].text
	}
	return texts
}
