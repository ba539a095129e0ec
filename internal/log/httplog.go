package log

import (
	"time"
)

// HTTPLogEntry represents an HTTP request/response log entry
type HTTPLogEntry struct {
	RequestID  string
	Method     string
	Path       string
	Query      string
	Status     int
	Duration   time.Duration
	Size       int
	RemoteAddr string
	UserAgent  string
}

// LogHTTPRequest writes one access log line. Server errors are logged at
// error level, client errors at warn, everything else at info.
func LogHTTPRequest(e HTTPLogEntry) {
	fields := []interface{}{
		"request_id", e.RequestID,
		"method", e.Method,
		"path", e.Path,
		"status", e.Status,
		"duration_ms", e.Duration.Milliseconds(),
		"size", e.Size,
		"remote_addr", e.RemoteAddr,
		"user_agent", e.UserAgent,
	}
	if e.Query != "" {
		fields = append(fields, "query", e.Query)
	}

	logger := GetSugaredLogger().Named("http")
	switch {
	case e.Status >= 500:
		logger.Errorw("request failed", fields...)
	case e.Status >= 400:
		logger.Warnw("request rejected", fields...)
	default:
		logger.Infow("request served", fields...)
	}
}
