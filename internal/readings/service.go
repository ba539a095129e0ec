package readings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxDays bounds the daily-averages window unless overridden.
const DefaultMaxDays = 36500

// Service answers the three sensor queries. Each call re-reads and re-parses
// the whole log; no state is kept between calls, so it is safe for concurrent use.
type Service struct {
	source  Source
	clock   Clock
	logger  *zap.SugaredLogger
	maxDays int
}

// Option configures a Service
type Option func(*Service)

// WithMaxDays sets the largest accepted day window. Zero means unbounded.
func WithMaxDays(n int) Option {
	return func(s *Service) {
		s.maxDays = n
	}
}

// NewService creates a query service reading from src.
func NewService(src Source, clock Clock, logger *zap.SugaredLogger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	s := &Service{
		source:  src,
		clock:   clock,
		logger:  logger,
		maxDays: DefaultMaxDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LastReading returns the newest parseable record in the log. Unparseable
// trailing lines, such as a write still in progress, are skipped.
func (s *Service) LastReading(ctx context.Context) (Reading, error) {
	content, err := s.read(ctx)
	if err != nil {
		return Reading{}, err
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := ParseLine(line)
		if err != nil {
			s.logger.Warnw("skipping malformed record", "line", i+1, "error", err)
			continue
		}
		return r, nil
	}

	return Reading{}, ErrNotFound
}

// HourlyReadings returns 24 hourly summaries for date.
func (s *Service) HourlyReadings(ctx context.Context, date string) ([]HourlyBucket, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	rs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	return Hourly(OnDate(rs, date)), nil
}

// DailyAverages returns one summary per date with readings in the window of
// days ending today. days is the raw, unvalidated request value.
func (s *Service) DailyAverages(ctx context.Context, days string) ([]DailyBucket, error) {
	n, err := ParseDays(days, s.maxDays)
	if err != nil {
		return nil, err
	}
	window := Window(s.clock.Now(), n)

	rs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debugw("computing daily averages", "start", window.Start, "end", window.End)
	return Daily(InRange(rs, window)), nil
}

func (s *Service) load(ctx context.Context) ([]Reading, error) {
	content, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	rs, skipped := ParseLog(content)
	for _, le := range skipped {
		s.logger.Warnw("skipping malformed record", "line", le.Line, "error", le.Err)
	}
	return rs, nil
}

func (s *Service) read(ctx context.Context) (string, error) {
	content, err := s.source.ReadAll(ctx)
	if err != nil {
		if errors.Is(err, ErrIOFailure) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return content, nil
}
