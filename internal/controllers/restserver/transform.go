package restserver

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chrissnell/sensorlog/internal/readings"
	"github.com/chrissnell/sensorlog/pkg/aqi"
)

// transformLastReading converts a parsed reading for JSON output
func transformLastReading(r readings.Reading) LastReadingResponse {
	level, _ := aqi.Lookup(r.AQI)
	return LastReadingResponse{
		Datetime:          r.Datetime(),
		Temp:              finiteOrNil(r.Temperature),
		Humidity:          finiteOrNil(r.Humidity),
		AQI:               finiteOrNil(r.AQI),
		DustConcentration: finiteOrNil(r.DustConcentration),
		GasLeak:           r.GasLeak,
		AQICategory:       level.Name,
		AQIColor:          level.Color,
	}
}

// transformHourly converts the 24 hourly buckets of date for JSON output
func transformHourly(date string, buckets []readings.HourlyBucket) []HourlyReadingResponse {
	out := make([]HourlyReadingResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, HourlyReadingResponse{
			Datetime:          fmt.Sprintf("%s %d:00", date, b.Hour),
			Temp:              formatMean(b.Temperature, b.Count),
			Humidity:          formatMean(b.Humidity, b.Count),
			AQI:               formatMean(b.AQI, b.Count),
			DustConcentration: formatMean(b.DustConcentration, b.Count),
			Count:             b.Count,
		})
	}
	return out
}

// transformDaily converts daily buckets for JSON output
func transformDaily(buckets []readings.DailyBucket) []DailyAverageResponse {
	out := make([]DailyAverageResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, DailyAverageResponse{
			Datetime:          b.Date,
			Temp:              formatMean(b.Temperature, b.Count),
			Humidity:          formatMean(b.Humidity, b.Count),
			AQI:               formatMean(b.AQI, b.Count),
			DustConcentration: formatMean(b.DustConcentration, b.Count),
			GasLeak:           finiteOrNil(b.GasLeakPercent),
			Count:             b.Count,
		})
	}
	return out
}

// formatMean renders a bucket mean with exactly two decimals. An empty bucket
// has no mean and renders as null; a NaN mean of a non-empty bucket renders "NaN".
func formatMean(v float64, count int) *string {
	if count == 0 {
		return nil
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	return &s
}

// JSON has no representation for NaN or ±Inf
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
