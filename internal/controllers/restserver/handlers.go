package restserver

import (
	"errors"
	"net/http"

	"github.com/chrissnell/sensorlog/internal/readings"
	"github.com/chrissnell/sensorlog/pkg/responseformat"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(ctrl.restConfig.CORSOrigin),
	}
}

// The log may change at any moment, so responses are never cached
var noStore = map[string]string{"Cache-Control": "no-store"}

// GetLastReading handles requests for the newest record in the sensor log
func (h *Handlers) GetLastReading(w http.ResponseWriter, req *http.Request) {
	r, err := h.controller.service.LastReading(req.Context())
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, transformLastReading(r))
}

// GetHourlyReadings handles requests for the 24 hourly summaries of a date
func (h *Handlers) GetHourlyReadings(w http.ResponseWriter, req *http.Request) {
	date := req.URL.Query().Get("date")

	buckets, err := h.controller.service.HourlyReadings(req.Context(), date)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, transformHourly(date, buckets))
}

// GetDailyAverages handles requests for per-day averages over the last N days
func (h *Handlers) GetDailyAverages(w http.ResponseWriter, req *http.Request) {
	buckets, err := h.controller.service.DailyAverages(req.Context(), req.URL.Query().Get("days"))
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, transformDaily(buckets))
}

// GetHealth reports that the server is up. It does not touch the sensor log.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, map[string]string{"status": "ok"})
}

// NotFound answers requests for unknown paths
func (h *Handlers) NotFound(w http.ResponseWriter, req *http.Request) {
	h.writeErrorBody(w, req, http.StatusNotFound, errCodeNotFound, "no such endpoint: "+req.URL.Path)
}

// MethodNotAllowed answers requests with an unsupported method
func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	h.writeErrorBody(w, req, http.StatusMethodNotAllowed, errCodeMethodNotAllowed, "method "+req.Method+" is not allowed")
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, data any) {
	if err := h.formatter.WriteResponse(w, req, data, noStore); err != nil {
		h.controller.logger.Errorw("error encoding response", "path", req.URL.Path, "error", err)
	}
}

// writeError maps a service error onto a status code and error body
func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, readings.ErrInvalidInput):
		status, code = http.StatusBadRequest, errCodeInvalidInput
	case errors.Is(err, readings.ErrNotFound):
		status, code = http.StatusServiceUnavailable, errCodeNoData
	case errors.Is(err, readings.ErrIOFailure):
		status, code = http.StatusInternalServerError, errCodeLogUnavailable
	default:
		status, code = http.StatusInternalServerError, errCodeInternal
	}

	message := err.Error()
	if status >= 500 {
		h.controller.logger.Errorw("query failed", "path", req.URL.Path, "request_id", requestIDFromContext(req.Context()), "error", err)
		// Don't leak file paths to clients
		switch code {
		case errCodeLogUnavailable:
			message = "error reading sensor log"
		case errCodeInternal:
			message = "internal server error"
		}
	}

	h.writeErrorBody(w, req, status, code, message)
}

func (h *Handlers) writeErrorBody(w http.ResponseWriter, req *http.Request, status int, code, message string) {
	body := ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestIDFromContext(req.Context()),
	}
	if err := h.formatter.WriteStatus(w, req, status, body, noStore); err != nil {
		h.controller.logger.Errorw("error encoding error response", "path", req.URL.Path, "error", err)
	}
}
