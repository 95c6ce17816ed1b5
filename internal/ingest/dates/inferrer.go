// Package dates infers a single meeting date per note.
//
// Inference is a cascade of strategies tried in order: the first one that
// yields a date wins. The last strategy reads the file mtime and always
// succeeds, so Infer is a total, deterministic function of its input.
package dates

import (
	"time"

	"cloud.google.com/go/civil"
)

// Input is everything a strategy may look at.
type Input struct {
	RelPath string
	Text    string // normalized text
	ModTime time.Time
}

// Strategy returns a date and true on success.
type Strategy func(in Input) (civil.Date, bool)

// Options configures the default cascade.
type Options struct {
	// ContentLines bounds the content scan to the first N lines.
	ContentLines int
	// Location is used to read calendar dates off timestamps. Defaults to time.Local.
	Location *time.Location
}

// Inferrer runs a strategy cascade.
type Inferrer struct {
	strategies []Strategy
	fallback   Strategy
}

// New builds the filename -> content -> mtime cascade.
func New(opts Options) *Inferrer {
	if opts.ContentLines <= 0 {
		opts.ContentLines = 20
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Inferrer{
		strategies: []Strategy{
			FromFilename,
			FromContent(opts.ContentLines, opts.Location),
		},
		fallback: FromModTime(opts.Location),
	}
}

// NewWithStrategies builds an inferrer from an explicit cascade. fallback must always succeed.
func NewWithStrategies(fallback Strategy, strategies ...Strategy) *Inferrer {
	return &Inferrer{strategies: strategies, fallback: fallback}
}

// Infer returns the meeting date for a document.
func (i *Inferrer) Infer(relPath, text string, modTime time.Time) civil.Date {
	in := Input{RelPath: relPath, Text: text, ModTime: modTime}
	for _, s := range i.strategies {
		if d, ok := s(in); ok {
			return d
		}
	}
	d, _ := i.fallback(in)
	return d
}

// FromModTime returns the calendar date of the file mtime in loc.
func FromModTime(loc *time.Location) Strategy {
	return func(in Input) (civil.Date, bool) {
		return civil.DateOf(in.ModTime.In(loc)), true
	}
}
