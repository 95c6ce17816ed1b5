package dates

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

var mtime = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func newUTC() *Inferrer {
	return New(Options{ContentLines: 20, Location: time.UTC})
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		path   string
		want   civil.Date
		wantOK bool
	}{
		{"2026-02-14-standup.md", date(2026, 2, 14), true},
		{"notes/2026_02_14.txt", date(2026, 2, 14), true},
		{"2026/02/14/retro.md", date(2026, 2, 14), true},
		{"14-02-2026 planning.md", date(2026, 2, 14), true},
		{"team/14_02_2026.txt", date(2026, 2, 14), true},
		{"2026-02-30.md", civil.Date{}, false},
		{"2026-13-01.md", civil.Date{}, false},
		{"31-04-2026.md", civil.Date{}, false},
		{"standup.md", civil.Date{}, false},
		{"2026-2-14.md", civil.Date{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FromFilename(Input{RelPath: tt.path})
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromFilename(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFromFilename_FirstTokenOnly(t *testing.T) {
	// first token is invalid; a later valid token is not consulted
	_, ok := FromFilename(Input{RelPath: "2026-02-30/2026-02-14.md"})
	if ok {
		t.Error("only the first date-shaped token is considered")
	}
}

func TestFromContent_ExactForms(t *testing.T) {
	scan := FromContent(20, time.UTC)
	tests := []struct {
		name string
		text string
		want civil.Date
	}{
		{"iso", "# Sync\nHeld 2026-02-14 in room B", date(2026, 2, 14)},
		{"iso slashes", "Date: 2026/02/14", date(2026, 2, 14)},
		{"day first numeric", "Date: 14.02.2026", date(2026, 2, 14)},
		{"month first when day first invalid", "Date: 02/14/2026", date(2026, 2, 14)},
		{"day month name", "Notes of 14 February 2026", date(2026, 2, 14)},
		{"ordinal day month name", "Held on the 3rd of Jan 2027", date(2027, 1, 3)},
		{"month name day", "Recorded Feb 14, 2026", date(2026, 2, 14)},
		{"iso timestamp", "Weekly sync\nDate: 2026-02-14T10:00Z", date(2026, 2, 14)},
		{"iso with suffix", "Export 2026-02-14_v2", date(2026, 2, 14)},
		{"day first glued to letters", "Minutes(14.02.2026)rev", date(2026, 2, 14)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scan(Input{Text: tt.text, ModTime: mtime})
			if !ok || got != tt.want {
				t.Errorf("got %v, %v; want %v", got, ok, tt.want)
			}
		})
	}
}

func TestFromContent_LongerDigitRunsIgnored(t *testing.T) {
	scan := FromContent(20, time.UTC)
	for _, text := range []string{"Ticket 42026-02-14", "Build 2026-02-145", "Ref 114.02.2026"} {
		if got, ok := scan(Input{Text: text, ModTime: mtime}); ok {
			t.Errorf("%q: expected no date, got %v", text, got)
		}
	}
	// a rejected run does not hide a later valid date
	got, ok := scan(Input{Text: "Build 2026-02-145, held 2026-02-16", ModTime: mtime})
	if !ok || got != date(2026, 2, 16) {
		t.Errorf("got %v, %v; want 2026-02-16", got, ok)
	}
}

func TestInfer_ContentTimestamp(t *testing.T) {
	got := newUTC().Infer("sync.md", "Weekly sync\nDate: 2026-02-14T10:00Z", mtime)
	if got != date(2026, 2, 14) {
		t.Errorf("expected date from timestamp, got %v", got)
	}
}

func TestFromContent_FirstMatchInDocumentOrder(t *testing.T) {
	scan := FromContent(20, time.UTC)
	text := "Follow-up to 2026-01-10 session\nAlso covers 2026-02-20 and 2026-02-20"

	got, ok := scan(Input{Text: text, ModTime: mtime})
	if !ok || got != date(2026, 1, 10) {
		t.Errorf("expected first date in order, got %v, %v", got, ok)
	}
}

func TestFromContent_OnlyFirstLines(t *testing.T) {
	scan := FromContent(3, time.UTC)
	text := "line one\nline two\nline three\nline four 2026-02-14"

	if got, ok := scan(Input{Text: text, ModTime: mtime}); ok {
		t.Errorf("date beyond the scan window must be ignored, got %v", got)
	}
}

func TestFromContent_NoDate(t *testing.T) {
	scan := FromContent(20, time.UTC)
	if got, ok := scan(Input{Text: "Agenda\n\n- pricing\n- hiring", ModTime: mtime}); ok {
		t.Errorf("expected no date, got %v", got)
	}
	if _, ok := scan(Input{Text: "", ModTime: mtime}); ok {
		t.Error("empty text has no date")
	}
}

func TestInfer_Precedence(t *testing.T) {
	inf := newUTC()

	// filename beats content
	got := inf.Infer("2026-02-14-sync.md", "Held 2025-12-01", mtime)
	if got != date(2026, 2, 14) {
		t.Errorf("filename must win, got %v", got)
	}

	// content beats mtime
	got = inf.Infer("sync.md", "Held 2025-12-01", mtime)
	if got != date(2025, 12, 1) {
		t.Errorf("content must win over mtime, got %v", got)
	}

	// invalid filename date falls through to content
	got = inf.Infer("2026-02-30-sync.md", "Held 2025-12-01", mtime)
	if got != date(2025, 12, 1) {
		t.Errorf("invalid filename date must fall through, got %v", got)
	}

	// mtime fallback
	got = inf.Infer("sync.md", "Agenda\n\n- pricing", mtime)
	if got != date(2026, 3, 9) {
		t.Errorf("expected mtime date, got %v", got)
	}
}

func TestInfer_MtimeInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	inf := New(Options{Location: loc})

	late := time.Date(2026, time.March, 9, 20, 0, 0, 0, time.UTC) // 06:00 next day at UTC+10
	if got := inf.Infer("x.md", "", late); got != date(2026, 3, 10) {
		t.Errorf("expected local calendar date, got %v", got)
	}
}

func TestInfer_Deterministic(t *testing.T) {
	inf := newUTC()
	text := "Weekly sync\nHeld Feb 14, 2026\nAction items follow"
	first := inf.Infer("team/sync.md", text, mtime)
	for i := 0; i < 20; i++ {
		if got := inf.Infer("team/sync.md", text, mtime); got != first {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
}

func TestNewWithStrategies(t *testing.T) {
	never := func(Input) (civil.Date, bool) { return civil.Date{}, false }
	fixed := func(Input) (civil.Date, bool) { return date(2000, 1, 1), true }

	inf := NewWithStrategies(fixed, never, never)
	if got := inf.Infer("a.md", "", mtime); got != date(2000, 1, 1) {
		t.Errorf("expected fallback date, got %v", got)
	}
}

func TestFromContent_RelativeToMtime(t *testing.T) {
	scan := FromContent(20, time.UTC)
	got, ok := scan(Input{Text: "Retro notes\nWritten up after the call yesterday", ModTime: mtime})
	if !ok || got != date(2026, 3, 8) {
		t.Errorf("expected day before mtime, got %v, %v", got, ok)
	}
}

func TestFromContent_BareWeekdayResolvesBackward(t *testing.T) {
	scan := FromContent(20, time.UTC)
	tests := []struct {
		name string
		text string
		want civil.Date
	}{
		// mtime is Monday 2026-03-09
		{"friday before mtime", "Friday sync\nAgenda", date(2026, 3, 6)},
		{"same weekday as mtime", "Monday standup\nAgenda", date(2026, 3, 9)},
		{"on weekday", "Notes from the call on Wednesday\nAgenda", date(2026, 3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scan(Input{Text: tt.text, ModTime: mtime})
			if !ok || got != tt.want {
				t.Errorf("got %v, %v; want %v", got, ok, tt.want)
			}
			if got.After(civil.DateOf(mtime)) {
				t.Errorf("meeting date %v is after the note was written", got)
			}
		})
	}
}

func TestParsedDate(t *testing.T) {
	base := mtime // Monday
	nextFri := time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC)

	if got := parsedDate("Friday ", nextFri, base); got != date(2026, 3, 6) {
		t.Errorf("bare weekday: got %v", got)
	}
	if got := parsedDate("next Friday", nextFri, base); got != date(2026, 3, 13) {
		t.Errorf("modified weekday must be kept, got %v", got)
	}
	if got := parsedDate("tomorrow", nextFri, base); got != date(2026, 3, 13) {
		t.Errorf("non-weekday expression must be kept, got %v", got)
	}
	if got := parsedDate("within a month", nextFri, base); got != date(2026, 3, 13) {
		t.Errorf("month is not a weekday, got %v", got)
	}
}
