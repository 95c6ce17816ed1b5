// Package chunker splits normalized note text into size-bounded chunks.
//
// Markdown notes are first cut into sections at heading lines, sections into
// blank-line separated paragraphs. Paragraphs are packed greedily into chunks
// of at most MaxChars characters; a paragraph that alone exceeds the limit is
// cut into overlapping windows. Lengths are counted in runes.
//
// A chunk never spans two markdown sections, even when both would fit in
// MaxChars; packing only happens within a section.
package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/kailas-cloud/minutesmind/internal/domain"
	"github.com/kailas-cloud/minutesmind/internal/domain/chunk"
)

const paragraphJoin = "\n\n"

// Options configures chunk sizing.
type Options struct {
	MaxChars     int
	OverlapChars int

	// NewID and Now default to uuid.NewString and time.Now.
	NewID func() string
	Now   func() time.Time
}

// Chunker cuts documents into chunks.
type Chunker struct {
	maxChars     int
	overlapChars int
	newID        func() string
	now          func() time.Time
}

// New validates sizing: MaxChars > OverlapChars >= 0.
func New(opts Options) (*Chunker, error) {
	if opts.OverlapChars < 0 || opts.MaxChars <= opts.OverlapChars {
		return nil, fmt.Errorf("%w: max_chars %d must exceed overlap_chars %d >= 0",
			domain.ErrInvalidConfig, opts.MaxChars, opts.OverlapChars)
	}
	c := &Chunker{
		maxChars:     opts.MaxChars,
		overlapChars: opts.OverlapChars,
		newID:        opts.NewID,
		now:          opts.Now,
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Chunk returns a fresh document ID and the document's chunks in order.
// Empty text yields the ID and no chunks.
func (c *Chunker) Chunk(sourceFile, text string, meetingDate civil.Date) (string, []chunk.Chunk) {
	docID := c.newID()
	createdAt := c.now().UTC()

	texts := c.Split(sourceFile, text)
	chunks := make([]chunk.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = chunk.New(chunk.Params{
			DocumentID:  docID,
			ChunkID:     c.newID(),
			SourceFile:  sourceFile,
			MeetingDate: meetingDate,
			Index:       i,
			Text:        t,
			CreatedAt:   createdAt,
		})
	}
	return docID, chunks
}

// Split returns the chunk texts for a document, in emission order.
func (c *Chunker) Split(sourceFile, text string) []string {
	acc := accumulator{}
	for _, p := range paragraphs(sourceFile, text) {
		acc = acc.add(p, c.maxChars, c.overlapChars)
	}
	return acc.flush().texts
}

// IsMarkdown reports whether the source file is split at headings.
func IsMarkdown(sourceFile string) bool {
	return strings.EqualFold(filepath.Ext(sourceFile), ".md")
}

type paragraph struct {
	text string
	// sectionStart marks the first paragraph of a markdown section after the first one.
	sectionStart bool
}

// paragraphs flattens sections into one paragraph stream.
func paragraphs(sourceFile, text string) []paragraph {
	sections := []string{text}
	if IsMarkdown(sourceFile) {
		sections = splitSections(text)
	}

	var out []paragraph
	for i, section := range sections {
		first := true
		for _, p := range strings.Split(section, paragraphJoin) {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			out = append(out, paragraph{text: p, sectionStart: first && i > 0})
			first = false
		}
	}
	return out
}

// splitSections starts a new section at every line beginning with '#',
// unless the current section is still empty.
func splitSections(text string) []string {
	var sections []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") && len(current) > 0 {
			sections = append(sections, strings.TrimSpace(strings.Join(current, "\n")))
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, strings.TrimSpace(strings.Join(current, "\n")))
	}
	return sections
}

// accumulator is the fold state: emitted chunk texts plus the open buffer.
type accumulator struct {
	texts  []string
	buffer string
}

// add folds one paragraph into the accumulator.
func (a accumulator) add(p paragraph, maxChars, overlapChars int) accumulator {
	if p.sectionStart {
		a = a.flush()
	}

	size := runeLen(p.text)
	if runeLen(a.buffer)+size+len(paragraphJoin) <= maxChars {
		if a.buffer == "" {
			a.buffer = p.text
		} else {
			a.buffer += paragraphJoin + p.text
		}
		return a
	}

	a = a.flush()
	if size > maxChars {
		a.texts = append(a.texts, windows(p.text, maxChars, overlapChars)...)
		return a
	}
	a.buffer = p.text
	return a
}

// flush emits the buffer as a chunk if it is non-empty.
func (a accumulator) flush() accumulator {
	if a.buffer != "" {
		a.texts = append(a.texts, strings.TrimSpace(a.buffer))
		a.buffer = ""
	}
	return a
}

// windows hard-splits text into maxChars-rune windows advancing by
// max(1, maxChars-overlapChars). The last window may be short.
func windows(text string, maxChars, overlapChars int) []string {
	runes := []rune(text)
	step := max(1, maxChars-overlapChars)

	var out []string
	for start := 0; start < len(runes); start += step {
		end := min(start+maxChars, len(runes))
		out = append(out, strings.TrimSpace(string(runes[start:end])))
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
