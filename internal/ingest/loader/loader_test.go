package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/minutesmind/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb\r\n", "a\nb"},
		{"lone cr", "a\rb\rc", "a\nb\nc"},
		{"mixed", "a\r\n\r\nb\rc\n", "a\n\nb\nc"},
		{"trailing whitespace", "a  \t\nb \n", "a\nb"},
		{"leading indent kept", "  - item\n    - nested", "- item\n    - nested"},
		{"outer trim", "\n\n  hello  \n\n", "hello"},
		{"paragraphs kept", "one\n\ntwo\n\n\nthree", "one\n\ntwo\n\n\nthree"},
		{"whitespace-only blank line", "one\n   \ntwo", "one\n\ntwo"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	text, replaced, err := Decode([]byte("ok \xff\xfe done"))
	if err != nil {
		t.Fatalf("Decode must not fail on malformed input: %v", err)
	}
	if !replaced {
		t.Error("expected replaced=true")
	}
	if !strings.Contains(text, "�") {
		t.Errorf("expected replacement character, got %q", text)
	}
	if !strings.HasPrefix(text, "ok ") || !strings.HasSuffix(text, " done") {
		t.Errorf("valid text around the bad bytes must survive, got %q", text)
	}
}

func TestDecode_BOM(t *testing.T) {
	text, replaced, err := Decode([]byte("\xef\xbb\xbf# Title"))
	if err != nil {
		t.Fatal(err)
	}
	if replaced {
		t.Error("BOM is valid UTF-8")
	}
	if text != "# Title" {
		t.Errorf("expected BOM stripped, got %q", text)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("# Sync  \r\n\r\nAgenda\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Text != "# Sync\n\nAgenda" {
		t.Errorf("unexpected text %q", doc.Text)
	}
	if !doc.ModTime.Equal(mtime) {
		t.Errorf("ModTime = %v, want %v", doc.ModTime, mtime)
	}
	if doc.Replaced {
		t.Error("unexpected replaced flag")
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.md"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
