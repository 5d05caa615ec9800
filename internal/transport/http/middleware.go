package http

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
)

// Legacy correlation headers sent by older batch clients.
const (
	headerTraceID = "X-Trace-Id"
	headerSpanID  = "X-Span-Id"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// legacyTraceMiddleware records the legacy headers on the server span.
func legacyTraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		if id := r.Header.Get(headerTraceID); id != "" {
			span.SetAttributes(attribute.String("legacy.trace_id", id))
		}
		if id := r.Header.Get(headerSpanID); id != "" {
			span.SetAttributes(attribute.String("legacy.span_id", id))
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		traceID, spanID := telemetry.TraceIDs(r.Context())
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"trace_id", traceID,
			"span_id", spanID,
		}
		if legacy := r.Header.Get(headerTraceID); legacy != "" {
			attrs = append(attrs, "x_trace_id", legacy)
		}
		if sw.status >= 500 {
			logger.ErrorContext(r.Context(), "http request", attrs...)
			return
		}
		logger.InfoContext(r.Context(), "http request", attrs...)
	})
}

func recoverMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", v)
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"status":  statusError,
					"message": "internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
