package minutesmind

import "cloud.google.com/go/civil"

// Span classes returned by Extract.
const (
	SpanDecision     = "decision"
	SpanActionItem   = "action_item"
	SpanOwner        = "owner"
	SpanDeadline     = "deadline"
	SpanOpenQuestion = "open_question"
	SpanRisk         = "risk"
)

// FileStatus is the outcome of ingesting one file.
type FileStatus string

// File status constants.
const (
	FileStored  FileStatus = "stored"
	FileSkipped FileStatus = "skipped"
	FileFailed  FileStatus = "failed"
)

// FileResult is the outcome of one note file.
type FileResult struct {
	Path        string
	DocumentID  string
	MeetingDate civil.Date
	Chunks      int
	Status      FileStatus
	Err         error
}

// IngestReport summarizes an ingestion run.
type IngestReport struct {
	Files   []FileResult
	Stored  int
	Skipped int
	Failed  int
	Chunks  int
}

// SearchResult is a single retrieved chunk.
type SearchResult struct {
	ID          string
	Score       float64
	Text        string
	SourceFile  string
	MeetingDate string
	Metadata    map[string]any
}

// Span is a typed piece of text. StartChar/EndChar are rune offsets into
// ExtractResult.Context and nil when the span could not be located.
type Span struct {
	Type       string
	Text       string
	StartChar  *int
	EndChar    *int
	Attributes map[string]string
}

// ExtractResult is the structured answer to a query.
type ExtractResult struct {
	Query   string
	Spans   []Span
	Sources []SearchResult
	Context string
}
