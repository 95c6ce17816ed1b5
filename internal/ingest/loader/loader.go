// Package loader reads note files into normalized text.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/note"
)

// Load reads path and returns its normalized text along with the file mtime.
// Malformed UTF-8 never fails the load; it is replaced with U+FFFD and
// flagged on the returned Document.
func Load(path string) (note.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return note.Document{}, fmt.Errorf("note file %s: %w", path, domain.ErrNotFound)
		}
		return note.Document{}, fmt.Errorf("stat %s: %w", path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return note.Document{}, fmt.Errorf("note file %s: %w", path, domain.ErrNotFound)
		}
		return note.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	text, replaced, err := Decode(raw)
	if err != nil {
		return note.Document{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return note.Document{
		Text:     Normalize(text),
		ModTime:  info.ModTime(),
		Replaced: replaced,
	}, nil
}

// Decode converts raw bytes to a string, replacing invalid UTF-8 sequences
// with U+FFFD and dropping a leading byte order mark.
func Decode(raw []byte) (text string, replaced bool, err error) {
	replaced = !utf8.Valid(raw)
	out, err := xunicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", replaced, err
	}
	return string(out), replaced, nil
}

// Normalize unifies line endings to "\n", strips trailing whitespace from
// every line and trims the whole text. Blank lines between paragraphs survive.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
