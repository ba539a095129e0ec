// Package simulator produces synthetic sensor log records for local testing
// of the query service.
package simulator

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/chrissnell/sensorlog/internal/readings"
	"go.uber.org/zap"
)

// Emulator generates plausible readings with a seasonal and a diurnal swing.
type Emulator struct {
	baseTemp     float64
	baseHumidity float64
	baseAQI      float64
	leakChance   float64
	rng          *rand.Rand
}

// NewEmulator returns an Emulator seeded with seed. The same seed yields the
// same sequence of readings.
func NewEmulator(seed int64) *Emulator {
	return &Emulator{
		baseTemp:     18,
		baseHumidity: 55,
		baseAQI:      40,
		leakChance:   0.002,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Generate returns a reading stamped with now, truncated to the minute.
func (e *Emulator) Generate(now time.Time) readings.Reading {
	hour := float64(now.Hour()) + float64(now.Minute())/60
	day := float64(now.YearDay())

	seasonal := 10 * math.Sin(2*math.Pi*(day-81)/365)
	daily := 6 * math.Sin(2*math.Pi*(hour-9)/24)

	temp := e.baseTemp + seasonal + daily + (e.rng.Float64()-0.5)*2
	humidity := math.Max(5, math.Min(98, e.baseHumidity+(e.baseTemp-temp)*1.5+(e.rng.Float64()-0.5)*4))
	// Traffic peaks push AQI up in the morning and evening
	aqi := math.Max(0, e.baseAQI+25*math.Abs(math.Sin(2*math.Pi*(hour-7)/12))+(e.rng.Float64()-0.5)*10)
	dust := math.Max(0, aqi/4+(e.rng.Float64()-0.5)*3)

	return readings.Reading{
		Date:              now.Format("2006-01-02"),
		Time:              now.Format("15:04"),
		Hour:              now.Hour(),
		Temperature:       round1(temp),
		Humidity:          round1(humidity),
		AQI:               math.Round(aqi),
		DustConcentration: round1(dust),
		GasLeak:           e.rng.Float64() < e.leakChance,
	}
}

// Run writes one record to w every interval until ctx is cancelled.
func Run(ctx context.Context, w io.Writer, emu *Emulator, clock readings.Clock, interval time.Duration, logger *zap.SugaredLogger) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r := emu.Generate(clock.Now())
		if _, err := fmt.Fprintln(w, readings.FormatLine(r)); err != nil {
			return fmt.Errorf("error writing reading: %w", err)
		}
		logger.Debugw("wrote reading", "datetime", r.Datetime(), "temperature", r.Temperature)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Backfill writes one record per step between from and to, inclusive of
// from. It is used to seed a log with history.
func Backfill(w io.Writer, emu *Emulator, from, to time.Time, step time.Duration) (int, error) {
	if step <= 0 {
		return 0, fmt.Errorf("step must be positive, got %s", step)
	}

	n := 0
	for t := from; t.Before(to); t = t.Add(step) {
		if _, err := fmt.Fprintln(w, readings.FormatLine(emu.Generate(t))); err != nil {
			return n, fmt.Errorf("error writing reading: %w", err)
		}
		n++
	}
	return n, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
