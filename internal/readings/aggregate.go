package readings

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// HoursPerDay is the fixed number of buckets returned by Hourly.
const HoursPerDay = 24

// Summary holds the bucket statistics. With Count == 0 every statistic is NaN.
// A mean is also NaN when any member carried NaN for that field.
type Summary struct {
	Count             int
	Temperature       float64
	Humidity          float64
	AQI               float64
	DustConcentration float64
	// GasLeakPercent is the share of members that reported a gas leak, 0-100.
	GasLeakPercent float64
}

// HourlyBucket summarizes the readings of one hour of a day.
type HourlyBucket struct {
	Hour int
	Summary
}

// DailyBucket summarizes the readings of one calendar date.
type DailyBucket struct {
	Date string
	Summary
}

// Summarize reduces a group of readings to their means and gas-leak share.
func Summarize(rs []Reading) Summary {
	if len(rs) == 0 {
		nan := math.NaN()
		return Summary{
			Temperature:       nan,
			Humidity:          nan,
			AQI:               nan,
			DustConcentration: nan,
			GasLeakPercent:    nan,
		}
	}

	temp := make([]float64, len(rs))
	hum := make([]float64, len(rs))
	aqi := make([]float64, len(rs))
	dust := make([]float64, len(rs))
	leaks := 0

	for i, r := range rs {
		temp[i] = r.Temperature
		hum[i] = r.Humidity
		aqi[i] = r.AQI
		dust[i] = r.DustConcentration
		if r.GasLeak {
			leaks++
		}
	}

	return Summary{
		Count:             len(rs),
		Temperature:       stat.Mean(temp, nil),
		Humidity:          stat.Mean(hum, nil),
		AQI:               stat.Mean(aqi, nil),
		DustConcentration: stat.Mean(dust, nil),
		GasLeakPercent:    float64(leaks) / float64(len(rs)) * 100,
	}
}

// Hourly groups readings by hour of day. The result always has 24 entries,
// ordered 0..23, including hours without readings.
func Hourly(rs []Reading) []HourlyBucket {
	var groups [HoursPerDay][]Reading
	for _, r := range rs {
		groups[r.Hour] = append(groups[r.Hour], r)
	}

	buckets := make([]HourlyBucket, HoursPerDay)
	for h := range groups {
		buckets[h] = HourlyBucket{Hour: h, Summary: Summarize(groups[h])}
	}
	return buckets
}

// Daily groups readings by date. Only dates that have readings get a bucket,
// and buckets come out in the order their date first appears in rs.
func Daily(rs []Reading) []DailyBucket {
	var order []string
	groups := make(map[string][]Reading)

	for _, r := range rs {
		if _, seen := groups[r.Date]; !seen {
			order = append(order, r.Date)
		}
		groups[r.Date] = append(groups[r.Date], r)
	}

	buckets := make([]DailyBucket, 0, len(order))
	for _, date := range order {
		buckets = append(buckets, DailyBucket{Date: date, Summary: Summarize(groups[date])})
	}
	return buckets
}
