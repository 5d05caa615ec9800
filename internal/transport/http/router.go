package http

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
)

// MetricsFunc returns a snapshot of the process metrics.
type MetricsFunc func(ctx context.Context) (map[string]any, error)

// RouterConfig wires the batch API. Products, Metrics and TracerProvider
// are optional.
type RouterConfig struct {
	Logger         *slog.Logger
	Service        string
	Batch          *BatchHandler
	Products       *ProductsHandler
	Metrics        MetricsFunc
	TracerProvider trace.TracerProvider
}

// Wrap instruments next with tracing, request logging and panic recovery.
// Incoming traceparent headers are extracted by otelhttp.
func Wrap(logger *slog.Logger, service string, tp trace.TracerProvider, next http.Handler) http.Handler {
	inner := recoverMiddleware(logger, requestLogMiddleware(logger, legacyTraceMiddleware(next)))

	opts := []otelhttp.Option{
		otelhttp.WithPropagators(telemetry.Propagator()),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}
	return otelhttp.NewHandler(inner, service, opts...)
}

// NewRouter builds the batch API handler.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/batch/start", cfg.Batch.StartBatch)
	mux.HandleFunc("POST /api/alerts/webhook", cfg.Batch.AlertWebhook)
	mux.HandleFunc("GET /healthz", Healthz(cfg.Service))

	if cfg.Products != nil {
		mux.HandleFunc("GET /api/products", cfg.Products.List)
		mux.HandleFunc("GET /api/products/stats", cfg.Products.Stats)
	}
	if cfg.Metrics != nil {
		mux.HandleFunc("GET /api/metrics", metricsHandler(cfg.Logger, cfg.Metrics))
	}

	return Wrap(cfg.Logger, cfg.Service, cfg.TracerProvider, mux)
}

// Healthz reports liveness.
func Healthz(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": service,
			"status":  "ok",
		})
	}
}

func metricsHandler(logger *slog.Logger, metrics MetricsFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := metrics(r.Context())
		if err != nil {
			logger.ErrorContext(r.Context(), "collect metrics", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to collect metrics"})
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}
