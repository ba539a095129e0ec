package restserver

// LastReadingResponse is the newest record in the sensor log. Numeric fields
// are null when the log carried a non-numeric value.
type LastReadingResponse struct {
	Datetime          string   `json:"datetime"`
	Temp              *float64 `json:"temp"`
	Humidity          *float64 `json:"humidity"`
	AQI               *float64 `json:"aqi"`
	DustConcentration *float64 `json:"dustConcentration"`
	GasLeak           bool     `json:"gasLeak"`
	AQICategory       string   `json:"aqiCategory,omitempty"`
	AQIColor          string   `json:"aqiColor,omitempty"`
}

// HourlyReadingResponse summarizes one hour of a day. Means are rendered with
// two decimals and are null for an hour without readings.
type HourlyReadingResponse struct {
	Datetime          string  `json:"datetime"`
	Temp              *string `json:"temp"`
	Humidity          *string `json:"humidity"`
	AQI               *string `json:"aqi"`
	DustConcentration *string `json:"dustConcentration"`
	Count             int     `json:"count"`
}

// DailyAverageResponse summarizes one calendar date. GasLeak is the
// percentage of readings that reported a leak.
type DailyAverageResponse struct {
	Datetime          string   `json:"datetime"`
	Temp              *string  `json:"temp"`
	Humidity          *string  `json:"humidity"`
	AQI               *string  `json:"aqi"`
	DustConcentration *string  `json:"dustConcentration"`
	GasLeak           *float64 `json:"gasLeak"`
	Count             int      `json:"count"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// Machine-readable error codes
const (
	errCodeInvalidInput     = "invalid_input"
	errCodeNoData           = "no_data"
	errCodeLogUnavailable   = "log_unavailable"
	errCodeInternal         = "internal_error"
	errCodeNotFound         = "not_found"
	errCodeMethodNotAllowed = "method_not_allowed"
	errCodeRateLimited      = "rate_limited"
)
