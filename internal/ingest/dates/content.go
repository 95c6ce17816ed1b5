package dates

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"cloud.google.com/go/civil"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

const monthNames = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// match is one date found in the scanned text. index is a byte offset.
type match struct {
	index  int
	length int
	date   civil.Date
}

// exactRule finds fully specified dates. Each returns its first valid match.
type exactRule func(text string) (match, bool)

var exactRules = []exactRule{
	numericRule(regexp.MustCompile(`(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`), func(m []string) (civil.Date, bool) {
		return makeDate(m[1], m[2], m[3])
	}),
	numericRule(regexp.MustCompile(`(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})`), numericDayFirst),
	regexRule(regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?`+monthNames+`\.?,?\s+(\d{4})\b`), func(m []string) (civil.Date, bool) {
		return monthDate(m[3], m[2], m[1])
	}),
	regexRule(regexp.MustCompile(`(?i)\b`+monthNames+`\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`), func(m []string) (civil.Date, bool) {
		return monthDate(m[3], m[1], m[2])
	}),
}

func regexRule(re *regexp.Regexp, parse func(m []string) (civil.Date, bool)) exactRule {
	return scanRule(re, nil, parse)
}

// numericRule matches all-digit dates. Any non-digit may touch them, so
// timestamps (2026-02-14T10:00Z) and suffixed tokens (2026-02-14_v2) still
// match, while longer digit runs do not.
func numericRule(re *regexp.Regexp, parse func(m []string) (civil.Date, bool)) exactRule {
	return scanRule(re, func(text string, start, end int) bool {
		return (start == 0 || !isDigit(text[start-1])) && (end == len(text) || !isDigit(text[end]))
	}, parse)
}

func scanRule(
	re *regexp.Regexp,
	bounded func(text string, start, end int) bool,
	parse func(m []string) (civil.Date, bool),
) exactRule {
	return func(text string) (match, bool) {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if bounded != nil && !bounded(text, loc[0], loc[1]) {
				continue
			}
			groups := make([]string, len(loc)/2)
			for g := range groups {
				if loc[2*g] >= 0 {
					groups[g] = text[loc[2*g]:loc[2*g+1]]
				}
			}
			if d, ok := parse(groups); ok {
				return match{index: loc[0], length: loc[1] - loc[0], date: d}, true
			}
		}
		return match{}, false
	}
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// numericDayFirst reads a/b/yyyy as day/month unless only month/day is valid.
func numericDayFirst(m []string) (civil.Date, bool) {
	if d, ok := makeDate(m[3], m[2], m[1]); ok {
		return d, true
	}
	return makeDate(m[3], m[1], m[2])
}

func monthDate(year, month, day string) (civil.Date, bool) {
	key := strings.ToLower(month)
	if len(key) > 3 && key != "sept" {
		key = key[:3]
	}
	mo, ok := months[key]
	if !ok {
		return civil.Date{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return civil.Date{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return civil.Date{}, false
	}
	return validDate(y, mo, d)
}

// newParser builds the natural-language parser for weekday, relative and
// partial dates. Only date-level rules are registered; clock times are ignored.
func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(
		en.Weekday(rules.Override),
		en.CasualDate(rules.Override),
		en.PastTime(rules.Override),
		en.Deadline(rules.Override),
		en.ExactMonthDate(rules.Override),
	)
	w.Add(common.SlashDMY(rules.Override))
	return w
}

// FromContent scans the first lines of the text for a date expression and
// returns the earliest one in document order. Relative expressions resolve
// against the file mtime, keeping the strategy deterministic.
func FromContent(lines int, loc *time.Location) Strategy {
	parser := newParser()
	var mu sync.Mutex
	return func(in Input) (civil.Date, bool) {
		head := firstLines(in.Text, lines)
		if head == "" {
			return civil.Date{}, false
		}

		best, found := match{}, false
		for _, rule := range exactRules {
			m, ok := rule(head)
			if !ok {
				continue
			}
			if !found || m.index < best.index || (m.index == best.index && m.length > best.length) {
				best, found = m, true
			}
		}

		// Fully specified dates win ties against the natural-language parser.
		base := in.ModTime.In(loc)
		mu.Lock()
		r, err := parser.Parse(head, base)
		mu.Unlock()
		if err == nil && r != nil {
			index := r.Index + leadingSeparators(r.Text)
			if !found || index < best.index {
				best, found = match{index: index, length: len(r.Text), date: parsedDate(r.Text, r.Time.In(loc), base)}, true
			}
		}

		return best.date, found
	}
}

// bareWeekday matches a weekday name with no next/this/last modifier.
var bareWeekday = regexp.MustCompile(`(?i)^\W*(?:on\s+)?` +
	`(?:monday|mon|tuesday|tues|tue|wednesday|wed|thursday|thurs|thur|thu|friday|fri|saturday|sat|sunday|sun)\W*$`)

// parsedDate returns the calendar date of a parser hit. A bare weekday names
// the most recent such day on or before base: notes are written after the meeting.
func parsedDate(text string, t, base time.Time) civil.Date {
	d := civil.DateOf(t)
	if bareWeekday.MatchString(text) {
		if ahead := d.DaysSince(civil.DateOf(base)); ahead > 0 {
			d = d.AddDays(-7 * ((ahead + 6) / 7))
		}
	}
	return d
}

// leadingSeparators counts the bytes before the first letter or digit.
// Parser matches include the delimiter that precedes the expression.
func leadingSeparators(s string) int {
	i := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
	if i < 0 {
		return 0
	}
	return i
}

func firstLines(text string, n int) string {
	lines := strings.SplitN(text, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
