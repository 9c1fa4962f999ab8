package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/chargegauge/pkg/logger"
	"github.com/okian/chargegauge/pkg/metrics"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-ID"
)

// MetricsMiddleware records request count, latency and error class for
// endpoint, and echoes a request id on every response.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(time.Since(start).Milliseconds()))

		if rec.status >= http.StatusBadRequest {
			class := errorClass(rec.status)
			metrics.RecordErrorByComponent("http", class)
			logger.Get().Debug(r.Context(), "request failed",
				logger.String("endpoint", endpoint),
				logger.String("method", r.Method),
				logger.Int("status", rec.status),
				logger.String("class", class),
				logger.String("requestID", id),
			)
		}
	}
}

// errorClass buckets a failed status into the error label used by metrics.
func errorClass(status int) string {
	switch {
	case status == http.StatusTooManyRequests:
		return "backpressure"
	case status == http.StatusServiceUnavailable:
		return "unavailable"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= http.StatusInternalServerError:
		return "server_error"
	default:
		return "client_error"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
