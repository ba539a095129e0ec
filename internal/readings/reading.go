// Package readings parses the sensor log and computes the per-hour and
// per-day summaries served by the REST controller.
package readings

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Number of whitespace-separated fields in a log record:
// DATE TIME TEMP HUMIDITY AQI DUST GASLEAK
const recordFields = 7

// Domain limits applied once, at parse time
const (
	minHumidity = 0.0
	maxHumidity = 100.0
	minAQI      = 0.0
	maxAQI      = 500.0
	minDust     = 0.0
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// Reading is one parsed and clamped sensor sample. Numeric fields hold NaN
// when the log carried a non-numeric value for them.
type Reading struct {
	Date              string
	Time              string
	Hour              int
	Temperature       float64
	Humidity          float64
	AQI               float64
	DustConcentration float64
	GasLeak           bool
}

// Datetime returns the date and time exactly as they appeared in the log.
func (r Reading) Datetime() string {
	return r.Date + " " + r.Time
}

// FormatLine renders r in the log's record layout. ParseLine(FormatLine(r))
// yields r again for any in-domain reading.
func FormatLine(r Reading) string {
	return strings.Join([]string{
		r.Date,
		r.Time,
		formatNumber(r.Temperature),
		formatNumber(r.Humidity),
		formatNumber(r.AQI),
		formatNumber(r.DustConcentration),
		strconv.FormatBool(r.GasLeak),
	}, " ")
}

// ParseLine turns one log line into a Reading.
func ParseLine(line string) (Reading, error) {
	fields := strings.Fields(line)
	if len(fields) < recordFields {
		return Reading{}, malformedf("expected %d fields, got %d", recordFields, len(fields))
	}

	if !datePattern.MatchString(fields[0]) {
		return Reading{}, malformedf("bad date %q", fields[0])
	}

	hour, err := parseHour(fields[1])
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		Date:              fields[0],
		Time:              fields[1],
		Hour:              hour,
		Temperature:       parseNumber(fields[2]),
		Humidity:          clamp(parseNumber(fields[3]), minHumidity, maxHumidity),
		AQI:               clamp(parseNumber(fields[4]), minAQI, maxAQI),
		DustConcentration: clamp(parseNumber(fields[5]), minDust, math.Inf(1)),
		GasLeak:           fields[6] == "true",
	}, nil
}

// ParseLog parses a whole log file. Blank lines are ignored and lines that
// fail to parse are skipped and reported in the second return value.
func ParseLog(content string) ([]Reading, []LineError) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	lines := strings.Split(content, "\n")
	rs := make([]Reading, 0, len(lines))
	var skipped []LineError

	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := ParseLine(line)
		if err != nil {
			skipped = append(skipped, LineError{Line: i + 1, Text: line, Err: err})
			continue
		}
		rs = append(rs, r)
	}

	return rs, skipped
}

func parseHour(s string) (int, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, malformedf("bad time %q", s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, malformedf("time out of range %q", s)
	}
	return hour, nil
}

// parseNumber never substitutes zero for garbage; a missing value is NaN.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Overflow still yields ±Inf, which the clamps can saturate
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// clamp saturates v into [lo, hi]. NaN passes through unchanged.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
