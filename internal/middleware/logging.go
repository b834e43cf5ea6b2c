package middleware

import (
	"net/http"
	"time"

	"github.com/kenneth/hex2base64/internal/metrics"
	"github.com/sirupsen/logrus"
)

// LoggingMiddleware wraps handlers with request logging. When m is non-nil
// every request is also recorded as an HTTP metric.
func LoggingMiddleware(logger *logrus.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			if m != nil {
				m.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rw.statusCode, duration, rw.bytesWritten)
			}

			entry := logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.UserAgent(),
				"status":      rw.statusCode,
				"duration_ms": duration.Milliseconds(),
				"bytes":       rw.bytesWritten,
			})
			if rw.statusCode >= http.StatusInternalServerError {
				entry.Warn("HTTP request")
			} else {
				entry.Info("HTTP request")
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}
