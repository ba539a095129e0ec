package restserver

import (
	"math"
	"testing"

	"github.com/chrissnell/sensorlog/internal/readings"
)

func TestFormatMean(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		count int
		want  string
	}{
		{"integer", 15, 2, "15.00"},
		{"one decimal", 21.5, 1, "21.50"},
		{"negative", -3.256, 3, "-3.26"},
		{"round up", 2.675001, 1, "2.68"},
		// Exact binary halves round to even
		{"half to even down", 0.125, 1, "0.12"},
		{"half to even up", 0.375, 1, "0.38"},
		// 1.005 is stored just below the half
		{"binary below half", 1.005, 1, "1.00"},
		{"nan with members", math.NaN(), 2, "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMean(tt.value, tt.count)
			if got == nil {
				t.Fatalf("formatMean(%v, %d) = nil", tt.value, tt.count)
			}
			if *got != tt.want {
				t.Errorf("formatMean(%v, %d) = %q, want %q", tt.value, tt.count, *got, tt.want)
			}
		})
	}

	if got := formatMean(math.NaN(), 0); got != nil {
		t.Errorf("empty bucket rendered as %q, want nil", *got)
	}
}

func TestTransformHourlyDatetime(t *testing.T) {
	buckets := readings.Hourly(nil)
	out := transformHourly("2024-05-01", buckets)

	if len(out) != 24 {
		t.Fatalf("got %d entries", len(out))
	}
	if out[0].Datetime != "2024-05-01 0:00" || out[9].Datetime != "2024-05-01 9:00" || out[23].Datetime != "2024-05-01 23:00" {
		t.Errorf("datetimes = %q, %q, %q", out[0].Datetime, out[9].Datetime, out[23].Datetime)
	}
}

func TestTransformLastReading(t *testing.T) {
	r, err := readings.ParseLine("2024-05-01 14:30 21.5 150 320 1e400 true")
	if err != nil {
		t.Fatal(err)
	}

	got := transformLastReading(r)

	if got.Datetime != "2024-05-01 14:30" || !got.GasLeak {
		t.Errorf("got %+v", got)
	}
	if got.Humidity == nil || *got.Humidity != 100 {
		t.Errorf("humidity = %v, want clamped 100", got.Humidity)
	}
	// +Inf dust has no JSON form
	if got.DustConcentration != nil {
		t.Errorf("dust = %v, want nil", *got.DustConcentration)
	}
	if got.AQICategory != "Hazardous" || got.AQIColor == "" {
		t.Errorf("category = %q color = %q", got.AQICategory, got.AQIColor)
	}
}

func TestTransformDaily(t *testing.T) {
	buckets := []readings.DailyBucket{
		{Date: "2024-05-02", Summary: readings.Summary{Count: 4, Temperature: 10, Humidity: 20, AQI: 30, DustConcentration: 40, GasLeakPercent: 25}},
	}

	out := transformDaily(buckets)

	if len(out) != 1 {
		t.Fatalf("got %d entries", len(out))
	}
	d := out[0]
	if d.Datetime != "2024-05-02" || d.Count != 4 {
		t.Errorf("got %+v", d)
	}
	if *d.Temp != "10.00" || *d.Humidity != "20.00" || *d.AQI != "30.00" || *d.DustConcentration != "40.00" {
		t.Errorf("means = %s %s %s %s", *d.Temp, *d.Humidity, *d.AQI, *d.DustConcentration)
	}
	if d.GasLeak == nil || *d.GasLeak != 25 {
		t.Errorf("gasLeak = %v, want 25", d.GasLeak)
	}
}
