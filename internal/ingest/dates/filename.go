package dates

import (
	"regexp"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

var filenameDate = regexp.MustCompile(`(\d{4})[-_/](\d{2})[-_/](\d{2})|(\d{2})[-_/](\d{2})[-_/](\d{4})`)

// FromFilename parses the first YYYY-MM-DD or DD-MM-YYYY token of the relative path.
// Separators may be '-', '_' or '/'. An invalid calendar date fails the strategy.
func FromFilename(in Input) (civil.Date, bool) {
	m := filenameDate.FindStringSubmatch(in.RelPath)
	if m == nil {
		return civil.Date{}, false
	}
	if m[1] != "" {
		return makeDate(m[1], m[2], m[3])
	}
	return makeDate(m[6], m[5], m[4])
}

// makeDate builds a date from decimal year, month and day strings.
func makeDate(year, month, day string) (civil.Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return civil.Date{}, false
	}
	mo, err := strconv.Atoi(month)
	if err != nil {
		return civil.Date{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return civil.Date{}, false
	}
	return validDate(y, time.Month(mo), d)
}

func validDate(y int, m time.Month, d int) (civil.Date, bool) {
	date := civil.Date{Year: y, Month: m, Day: d}
	if y < 1 || !date.IsValid() {
		return civil.Date{}, false
	}
	return date, true
}
