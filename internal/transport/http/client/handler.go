package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	transporthttp "github.com/light-bringer/procat-batch/internal/transport/http"

	"github.com/light-bringer/procat-batch/internal/pkg/clock"
	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
)

// ServiceName identifies the client in health responses and spans.
const ServiceName = "batch-client"

// BatchStarter triggers a batch run.
type BatchStarter interface {
	StartBatch(ctx context.Context) (map[string]any, error)
}

// Handler serves the client endpoints.
type Handler struct {
	api    BatchStarter
	clock  clock.Clock
	logger *slog.Logger
}

// NewHandler creates a new client handler.
func NewHandler(api BatchStarter, clk clock.Clock, logger *slog.Logger) *Handler {
	return &Handler{
		api:    api,
		clock:  clk,
		logger: logger,
	}
}

// TriggerBatch handles POST /client/trigger-batch. The upstream body is
// passed through: 200 when its status is success, 400 otherwise.
func (h *Handler) TriggerBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID, spanID := telemetry.TraceIDs(ctx)
	h.logger.InfoContext(ctx, "triggering batch job", "trace_id", traceID, "span_id", spanID)

	result, err := h.api.StartBatch(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "trigger batch job", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":    "error",
			"message":   "Internal server error: " + err.Error(),
			"timestamp": h.clock.Now().UnixMilli(),
		})
		return
	}

	if result["status"] == "success" {
		writeJSON(w, http.StatusOK, result)
		return
	}
	h.logger.WarnContext(ctx, "batch job was not started", "response", result)
	writeJSON(w, http.StatusBadRequest, result)
}

// Health handles GET /client/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	traceID, spanID := telemetry.TraceIDs(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "UP",
		"service":   ServiceName,
		"timestamp": strconv.FormatInt(h.clock.Now().UnixMilli(), 10),
		"traceId":   traceID,
		"spanId":    spanID,
	})
}

// NewRouter builds the client API. tp may be nil.
func NewRouter(h *Handler, tp trace.TracerProvider, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /client/trigger-batch", h.TriggerBatch)
	mux.HandleFunc("GET /client/health", h.Health)
	return transporthttp.Wrap(logger, ServiceName, tp, mux)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
