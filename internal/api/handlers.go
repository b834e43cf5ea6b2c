package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/kenneth/hex2base64/internal/codec"
	"github.com/kenneth/hex2base64/internal/debug"
	"github.com/kenneth/hex2base64/internal/metrics"
	"github.com/kenneth/hex2base64/internal/tracing"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const kindBadRequest = "bad_request"

// ConvertRequest is the JSON body accepted by POST /v1/convert.
type ConvertRequest struct {
	Hex string `json:"hex"`
}

// ConvertResponse is returned for a successful conversion.
type ConvertResponse struct {
	Base64 string `json:"base64"`
	Bytes  int    `json:"bytes"`
}

// ErrorResponse is returned for rejected input.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Offset *int   `json:"offset,omitempty"`
}

// Handler serves hex to Base64 conversions over HTTP.
type Handler struct {
	logger        *logrus.Logger
	metrics       *metrics.Metrics
	maxInputBytes int64
}

// NewHandler creates a new API handler. Bodies larger than maxInputBytes
// are rejected with 413.
func NewHandler(logger *logrus.Logger, m *metrics.Metrics, maxInputBytes int64) *Handler {
	return &Handler{
		logger:        logger,
		metrics:       m,
		maxInputBytes: maxInputBytes,
	}
}

// RegisterRoutes registers all API routes. The metrics endpoint is mounted
// at metricsPath when metricsPath is not empty.
func (h *Handler) RegisterRoutes(r *mux.Router, metricsPath string) {
	r.HandleFunc("/health", metrics.HealthHandler()).Methods("GET")
	r.HandleFunc("/ready", metrics.ReadinessHandler(selfCheck)).Methods("GET")
	r.HandleFunc("/live", metrics.LivenessHandler()).Methods("GET")
	if metricsPath != "" && h.metrics != nil {
		r.Handle(metricsPath, h.metrics.Handler()).Methods("GET")
	}

	// Full paths on the root router keep 405 for wrong methods on /v1/convert.
	r.HandleFunc("/v1/convert", h.handleConvertBody).Methods("POST")
	r.HandleFunc("/v1/convert/{hex}", h.handleConvertPath).Methods("GET")
}

// selfCheck verifies the codec against a known vector.
func selfCheck(context.Context) error {
	got, err := codec.HexToBase64("4c6975626f76")
	if err != nil {
		return err
	}
	if got != "TGl1Ym92" {
		return fmt.Errorf("codec self-check mismatch: %q", got)
	}
	return nil
}

// handleConvertBody accepts either a JSON ConvertRequest or raw hex text.
func (h *Handler) handleConvertBody(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxInputBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit),
				Kind:  kindBadRequest,
			})
			return
		}
		h.logger.WithError(err).Warn("Failed to read request body")
		h.writeError(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read request body", Kind: kindBadRequest})
		return
	}

	input := strings.TrimSpace(string(body))
	if isJSON(r.Header.Get("Content-Type")) {
		var req ConvertRequest
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error(), Kind: kindBadRequest})
			return
		}
		input = req.Hex
	}

	h.convert(w, r, input)
}

func (h *Handler) handleConvertPath(w http.ResponseWriter, r *http.Request) {
	input := mux.Vars(r)["hex"]
	if int64(len(input)) > h.maxInputBytes {
		h.writeError(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: fmt.Sprintf("input exceeds %d bytes", h.maxInputBytes),
			Kind:  kindBadRequest,
		})
		return
	}
	h.convert(w, r, input)
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request, input string) {
	ctx, span := tracing.Tracer().Start(r.Context(), "codec.convert")
	defer span.End()
	span.SetAttributes(attribute.Int("hex.length", len(input)))

	out, err := codec.HexToBase64(input)
	if err != nil {
		var de *codec.DecodeError
		if !errors.As(err, &de) {
			span.RecordError(err)
			h.logger.WithError(err).Error("Conversion failed")
			h.writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "conversion failed", Kind: "internal"})
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, de.Kind.String())
		if h.metrics != nil {
			h.metrics.RecordConversionError(ctx, metrics.SourceHTTP, de.Kind.String())
		}
		if debug.Enabled() {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"kind":   de.Kind.String(),
				"length": len(input),
			}).Debug("Rejected hex input")
		}

		resp := ErrorResponse{Error: err.Error(), Kind: de.Kind.String()}
		if de.Kind == codec.InvalidDigit {
			offset := de.Offset
			resp.Offset = &offset
		}
		h.writeError(w, http.StatusBadRequest, resp)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordConversion(ctx, metrics.SourceHTTP, len(input))
	}
	if debug.Enabled() {
		h.logger.WithFields(logrus.Fields{
			"hex_length":    len(input),
			"base64_length": len(out),
		}).Debug("Converted hex input")
	}

	h.writeJSON(w, http.StatusOK, ConvertResponse{Base64: out, Bytes: len(input) / 2})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to write response")
	}
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
