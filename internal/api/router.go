package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kenneth/hex2base64/internal/metrics"
	"github.com/kenneth/hex2base64/internal/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the full HTTP handler: routes wrapped in request
// logging and panic recovery. m may be nil to disable metrics.
func NewRouter(logger *logrus.Logger, m *metrics.Metrics, maxInputBytes int64, metricsPath string) http.Handler {
	r := mux.NewRouter()
	NewHandler(logger, m, maxInputBytes).RegisterRoutes(r, metricsPath)

	// Wrap the whole router so 404 and 405 answers are logged and counted too.
	// Logging wraps recovery so recovered panics are logged with their 500.
	return middleware.LoggingMiddleware(logger, m)(middleware.RecoveryMiddleware(logger)(r))
}
