package batch

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
)

func TestNewStored(t *testing.T) {
	d := civil.Date{Year: 2026, Month: 2, Day: 14}
	r := NewStored("team/a.md", "doc-1", d, 3)

	if r.RelPath() != "team/a.md" || r.DocumentID() != "doc-1" {
		t.Errorf("unexpected identity %q / %q", r.RelPath(), r.DocumentID())
	}
	if r.MeetingDate() != d || r.Chunks() != 3 {
		t.Errorf("unexpected details %v / %d", r.MeetingDate(), r.Chunks())
	}
	if r.Status() != StatusStored {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusStored)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewSkipped(t *testing.T) {
	err := errors.New("unreadable")
	r := NewSkipped("b.txt", err)

	if r.Status() != StatusSkipped {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusSkipped)
	}
	if r.DocumentID() != "" || r.Chunks() != 0 {
		t.Error("skipped files carry no document")
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v", r.Err())
	}
}

func TestNewFailed(t *testing.T) {
	err := errors.New("count mismatch")
	r := NewFailed("c.md", "doc-3", civil.Date{Year: 2026, Month: 1, Day: 2}, 4, err)

	if r.Status() != StatusFailed || r.Chunks() != 4 || r.DocumentID() != "doc-3" {
		t.Errorf("unexpected result %+v", r)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v", r.Err())
	}
}
