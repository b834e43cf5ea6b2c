package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

// SourceHTTP labels conversions served by the HTTP API.
const SourceHTTP = "http"

// Metrics holds all application metrics.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestBytes    *prometheus.CounterVec
	conversionsTotal    *prometheus.CounterVec
	conversionErrors    *prometheus.CounterVec
	inputBytes          prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates a metrics instance registered with the default registry.
func NewMetrics() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewMetricsWithRegistry creates a metrics instance bound to reg.
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	return newMetrics(reg, reg)
}

func newMetrics(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		httpRequestBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_request_bytes_total",
				Help: "Total bytes written in HTTP responses",
			},
			[]string{"method", "path"},
		),
		conversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hex2base64_conversions_total",
				Help: "Total number of successful hex to Base64 conversions",
			},
			[]string{"source"},
		),
		conversionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hex2base64_conversion_errors_total",
				Help: "Total number of rejected hex inputs by error kind",
			},
			[]string{"source", "kind"},
		),
		inputBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hex2base64_input_bytes",
				Help:    "Size of hex inputs in bytes",
				Buckets: prometheus.ExponentialBuckets(16, 4, 8),
			},
		),
		gatherer: gatherer,
	}
}

// RecordHTTPRequest records an HTTP request metric.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration, bytes int64) {
	path = sanitizePathLabel(path)
	statusText := http.StatusText(status)
	exemplar := getExemplar(ctx)

	addCounter(m.httpRequestsTotal.WithLabelValues(method, path, statusText), 1, exemplar)
	observe(m.httpRequestDuration.WithLabelValues(method, path, statusText), duration.Seconds(), exemplar)
	m.httpRequestBytes.WithLabelValues(method, path).Add(float64(bytes))
}

// RecordConversion records a successful conversion of an input of inputLen bytes.
func (m *Metrics) RecordConversion(ctx context.Context, source string, inputLen int) {
	exemplar := getExemplar(ctx)
	addCounter(m.conversionsTotal.WithLabelValues(source), 1, exemplar)
	observe(m.inputBytes, float64(inputLen), exemplar)
}

// RecordConversionError records a rejected input.
func (m *Metrics) RecordConversionError(ctx context.Context, source, kind string) {
	addCounter(m.conversionErrors.WithLabelValues(source, kind), 1, getExemplar(ctx))
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func addCounter(c prometheus.Counter, v float64, exemplar prometheus.Labels) {
	if adder, ok := c.(prometheus.ExemplarAdder); ok && exemplar != nil {
		adder.AddWithExemplar(v, exemplar)
		return
	}
	c.Add(v)
}

func observe(o prometheus.Observer, v float64, exemplar prometheus.Labels) {
	if eo, ok := o.(prometheus.ExemplarObserver); ok && exemplar != nil {
		eo.ObserveWithExemplar(v, exemplar)
		return
	}
	o.Observe(v)
}

// getExemplar returns trace_id exemplar labels when ctx carries a valid span.
func getExemplar(ctx context.Context) prometheus.Labels {
	if ctx == nil {
		return nil
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return prometheus.Labels{"trace_id": sc.TraceID().String()}
}

// sanitizePathLabel bounds label cardinality: the first two path segments
// are kept and anything deeper collapses to "*".
func sanitizePathLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return "/"
	}

	segs := strings.Split(path, "/")
	if len(segs) <= 2 {
		return "/" + path
	}
	return "/" + segs[0] + "/" + segs[1] + "/*"
}
