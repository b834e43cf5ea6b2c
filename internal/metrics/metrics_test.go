package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

const testTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"

func tracedContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex(testTraceID)
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
		Remote:  true,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestNewMetricsWithRegistry(t *testing.T) {
	// Use a custom registry to avoid duplicate registration issues in tests
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)
	require.NotNil(t, m)

	assert.NotNil(t, m.httpRequestsTotal)
	assert.NotNil(t, m.httpRequestDuration)
	assert.NotNil(t, m.conversionsTotal)
	assert.NotNil(t, m.conversionErrors)
}

func TestMetrics_RecordConversion(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordConversion(context.Background(), SourceHTTP, 22)
	m.RecordConversion(context.Background(), SourceHTTP, 8)
	m.RecordConversion(context.Background(), "batch", 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.conversionsTotal.WithLabelValues(SourceHTTP)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conversionsTotal.WithLabelValues("batch")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.inputBytes))
}

func TestMetrics_RecordConversionError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordConversionError(context.Background(), SourceHTTP, "odd_length")
	m.RecordConversionError(context.Background(), SourceHTTP, "odd_length")
	m.RecordConversionError(context.Background(), SourceHTTP, "invalid_digit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.conversionErrors.WithLabelValues(SourceHTTP, "odd_length")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conversionErrors.WithLabelValues(SourceHTTP, "invalid_digit")))
}

func TestSanitizePathLabel(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/", "/"},
		{"", "/"},
		{"/metrics", "/metrics"},
		{"/health", "/health"},
		{"/v1/convert", "/v1/convert"},
		{"/v1/convert/", "/v1/convert"},
		{"/v1/convert/48656c6c6f", "/v1/convert/*"},
		{"/v1/convert/a/b/c", "/v1/convert/*"},
		{"/v1/convert?hex=ab", "/v1/convert"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizePathLabel(tt.path))
		})
	}
}

func TestRecordHTTPRequest_Cardinality(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordHTTPRequest(context.Background(), "GET", "/v1/convert/aa", http.StatusOK, time.Millisecond, 100)
	m.RecordHTTPRequest(context.Background(), "GET", "/v1/convert/bb", http.StatusOK, time.Millisecond, 100)
	m.RecordHTTPRequest(context.Background(), "GET", "/v1/convert/cc", http.StatusBadRequest, time.Millisecond, 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/v1/convert/*", "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/v1/convert/*", "Bad Request")))
	assert.Equal(t, 210.0, testutil.ToFloat64(m.httpRequestBytes.WithLabelValues("GET", "/v1/convert/*")))
}

func TestGetExemplar(t *testing.T) {
	assert.Nil(t, getExemplar(context.Background()))

	labels := getExemplar(tracedContext(t))
	require.NotNil(t, labels)
	assert.Equal(t, testTraceID, labels["trace_id"])
}

func TestExemplar_RecordConversion(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	m.RecordConversion(tracedContext(t), SourceHTTP, 10)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "hex2base64_conversions_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			ex := metric.GetCounter().GetExemplar()
			if ex == nil {
				continue
			}
			for _, label := range ex.GetLabel() {
				if label.GetName() == "trace_id" && label.GetValue() == testTraceID {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "expected trace_id exemplar on conversions counter")
}

func TestMetrics_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegistry(reg)

	// Record some metrics first so they appear in output
	m.RecordHTTPRequest(context.Background(), "POST", "/v1/convert", http.StatusOK, 100*time.Millisecond, 1024)
	m.RecordConversion(context.Background(), SourceHTTP, 12)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, metric := range []string{"http_requests_total", "hex2base64_conversions_total"} {
		assert.True(t, strings.Contains(body, metric), "expected metrics output to contain %q", metric)
	}
}
