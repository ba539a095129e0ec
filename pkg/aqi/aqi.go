// Package aqi maps Air Quality Index values to the EPA category scale
package aqi

import "math"

// Level is one band of the EPA AQI scale
type Level struct {
	Max   float64
	Name  string
	Color string
}

// Levels are ordered by their upper bound; the last band is open ended.
var Levels = []Level{
	{Max: 50, Name: "Good", Color: "#00e400"},
	{Max: 100, Name: "Moderate", Color: "#ffff00"},
	{Max: 150, Name: "Unhealthy for Sensitive Groups", Color: "#ff7e00"},
	{Max: 200, Name: "Unhealthy", Color: "#ff0000"},
	{Max: 300, Name: "Very Unhealthy", Color: "#99004c"},
	{Max: math.Inf(1), Name: "Hazardous", Color: "#7e0023"},
}

// Lookup returns the band for an AQI value. Values are rounded to the nearest
// integer first, as the EPA reports whole index numbers. ok is false for NaN.
func Lookup(index float64) (level Level, ok bool) {
	if math.IsNaN(index) {
		return Level{}, false
	}
	index = math.Round(index)
	for _, l := range Levels {
		if index <= l.Max {
			return l, true
		}
	}
	return Levels[len(Levels)-1], true
}

// GetCategory returns the AQI category name, or "" when the value is unknown
func GetCategory(index float64) string {
	l, _ := Lookup(index)
	return l.Name
}

// GetCategoryColor returns the standard color code, or "" when the value is unknown
func GetCategoryColor(index float64) string {
	l, _ := Lookup(index)
	return l.Color
}
