package readings

import (
	"strconv"
	"strings"
	"time"
)

// Layout of the DATE field in the sensor log
const dateLayout = "2006-01-02"

// DateRange is an inclusive window of calendar dates in YYYY-MM-DD form.
type DateRange struct {
	Start string
	End   string
}

// Contains reports whether date falls within the range. Comparison is lexical,
// which is only correct because both sides are zero-padded ISO dates.
func (d DateRange) Contains(date string) bool {
	return d.Start <= date && date <= d.End
}

// ValidateDate checks that s looks like YYYY-MM-DD.
func ValidateDate(s string) error {
	if !datePattern.MatchString(s) {
		return invalidInputf("date %q is not in YYYY-MM-DD format", s)
	}
	return nil
}

// ParseDays parses the day count of a window. It must be a positive integer
// no larger than max; a max of zero disables the upper bound.
func ParseDays(s string, max int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalidInputf("days parameter is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidInputf("days %q is not an integer", s)
	}
	if n <= 0 {
		return 0, invalidInputf("days must be positive, got %d", n)
	}
	if max > 0 && n > max {
		return 0, invalidInputf("days must not exceed %d, got %d", max, n)
	}
	return n, nil
}

// Window returns the range of days calendar dates ending on today's date.
// A window of one day covers only today.
func Window(today time.Time, days int) DateRange {
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	start := end.AddDate(0, 0, -(days - 1))
	return DateRange{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
	}
}

// OnDate returns the readings taken on date, preserving log order.
func OnDate(rs []Reading, date string) []Reading {
	var out []Reading
	for _, r := range rs {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

// InRange returns the readings whose date falls in dr, preserving log order.
func InRange(rs []Reading, dr DateRange) []Reading {
	var out []Reading
	for _, r := range rs {
		if dr.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}
