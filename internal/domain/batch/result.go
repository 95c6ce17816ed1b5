package batch

import "cloud.google.com/go/civil"

// ItemStatus is the ingestion outcome of a single note file.
type ItemStatus string

// File status values.
const (
	StatusStored  ItemStatus = "stored"
	StatusSkipped ItemStatus = "skipped"
	StatusFailed  ItemStatus = "failed"
)

// Result is the outcome of ingesting one file in a run.
type Result struct {
	relPath     string
	documentID  string
	meetingDate civil.Date
	chunks      int
	status      ItemStatus
	err         error
}

// NewStored records a file whose chunks were all upserted.
func NewStored(relPath, documentID string, meetingDate civil.Date, chunks int) Result {
	return Result{
		relPath: relPath, documentID: documentID, meetingDate: meetingDate,
		chunks: chunks, status: StatusStored,
	}
}

// NewSkipped records a file that was never chunked (load failure or not scheduled).
func NewSkipped(relPath string, err error) Result {
	return Result{relPath: relPath, status: StatusSkipped, err: err}
}

// NewFailed records a file whose chunks were produced but not stored.
func NewFailed(relPath, documentID string, meetingDate civil.Date, chunks int, err error) Result {
	return Result{
		relPath: relPath, documentID: documentID, meetingDate: meetingDate,
		chunks: chunks, status: StatusFailed, err: err,
	}
}

// RelPath returns the root-relative file path.
func (r Result) RelPath() string { return r.relPath }

// DocumentID returns the document ID assigned by the chunker, "" when never chunked.
func (r Result) DocumentID() string { return r.documentID }

// MeetingDate returns the inferred meeting date; zero when never chunked.
func (r Result) MeetingDate() civil.Date { return r.meetingDate }

// Chunks returns the number of chunks produced for the file.
func (r Result) Chunks() int { return r.chunks }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }
