package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/launchdash/pkg/logger"
	"github.com/okian/launchdash/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Capture the status code written by next.
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		elapsed := time.Since(start)
		durationMs := float64(elapsed.Microseconds()) / 1000
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

		if errorType, severity, failed := classifyStatus(wrapped.statusCode); failed {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
			metrics.RecordErrorByType(errorType, severity)
			metrics.RecordErrorLatency("http", errorType, durationMs)
		}

		logger.Get().Debug(r.Context(), "http request",
			logger.String("endpoint", endpoint),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", wrapped.statusCode),
			logger.Duration("took", elapsed),
		)
	}
}

// classifyStatus maps a response status to the error code written by
// writeFailure and a severity. Bad input is expected traffic from the slider,
// so only server-side failures are high.
func classifyStatus(status int) (errorType, severity string, failed bool) {
	switch {
	case status < http.StatusBadRequest:
		return "", "", false
	case status == http.StatusBadRequest:
		return "bad_request", "low", true
	case status == http.StatusNotFound:
		return "not_found", "low", true
	case status == http.StatusServiceUnavailable:
		return "unavailable", "medium", true
	case status >= http.StatusInternalServerError:
		return "internal_error", "high", true
	default:
		return "client_error", "medium", true
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
