package readings

import (
	"errors"
	"fmt"
)

// Error classes returned by the query service. Callers classify with errors.Is.
var (
	// ErrInvalidInput is returned for a bad date or day count. It is always
	// returned before the log is read.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIOFailure is returned when the sensor log cannot be read.
	ErrIOFailure = errors.New("sensor log unavailable")

	// ErrNotFound is returned by LastReading when the log holds no usable record.
	ErrNotFound = errors.New("no readings found")

	// ErrMalformedRecord marks a log line that could not be parsed. The service
	// skips such lines; it never surfaces this error to a caller.
	ErrMalformedRecord = errors.New("malformed record")
)

// LineError describes a log line that was skipped while parsing.
type LineError struct {
	Line int // 1-based line number after trimming the file
	Text string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

func invalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}
