package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/app/batch/usecases/run_pipeline"
	"github.com/light-bringer/procat-batch/internal/pkg/clock"
	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
)

// PipelineRunner runs one pipeline to completion.
type PipelineRunner interface {
	Execute(ctx context.Context, req *run_pipeline.Request) (*domain.PipelineResult, error)
}

// StartResponse is the body of POST /api/batch/start.
type StartResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Timestamp int64          `json:"timestamp"`
	RunID     string         `json:"run_id,omitempty"`
	State     string         `json:"state,omitempty"`
	Counts    *domain.Counts `json:"counts,omitempty"`
}

// AlertResponse is the body of POST /api/alerts/webhook.
type AlertResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// BatchHandler handles the batch trigger and alert webhook endpoints.
type BatchHandler struct {
	runner   PipelineRunner
	defaults run_pipeline.Request
	clock    clock.Clock
	logger   *slog.Logger
}

// NewBatchHandler creates a new HTTP batch handler. defaults holds the input
// paths and chunking parameters of every triggered run.
func NewBatchHandler(runner PipelineRunner, defaults run_pipeline.Request, clk clock.Clock, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{
		runner:   runner,
		defaults: defaults,
		clock:    clk,
		logger:   logger,
	}
}

// StartBatch handles POST /api/batch/start. The run is synchronous and is
// not cancelled when the caller disconnects.
func (h *BatchHandler) StartBatch(w http.ResponseWriter, r *http.Request) {
	req := h.defaults
	req.CorrelationID = correlationID(r)

	result, err := h.runner.Execute(context.WithoutCancel(r.Context()), &req)
	now := h.clock.Now().UnixMilli()

	if err != nil {
		resp := StartResponse{
			Status:    statusError,
			Message:   "Failed to start batch job: " + err.Error(),
			Timestamp: now,
		}
		if result != nil {
			counts := result.Counts()
			resp.RunID = result.RunID
			resp.State = string(result.State())
			resp.Counts = &counts
		}
		writeJSON(w, statusForError(err), resp)
		return
	}

	counts := result.Counts()
	writeJSON(w, http.StatusOK, StartResponse{
		Status:    statusSuccess,
		Message:   domain.NewSummary(result).Message,
		Timestamp: now,
		RunID:     result.RunID,
		State:     string(result.State()),
		Counts:    &counts,
	})
}

// AlertWebhook handles POST /api/alerts/webhook.
func (h *BatchHandler) AlertWebhook(w http.ResponseWriter, r *http.Request) {
	now := strconv.FormatInt(h.clock.Now().UnixMilli(), 10)

	var alert map[string]any
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		h.logger.ErrorContext(r.Context(), "error processing alert", "error", err)
		writeJSON(w, http.StatusBadRequest, AlertResponse{
			Message:   "Error processing alert: " + err.Error(),
			Status:    statusError,
			Timestamp: now,
		})
		return
	}

	h.logger.WarnContext(r.Context(), "received alert", "alert", alert)
	writeJSON(w, http.StatusOK, AlertResponse{
		Message:   "Alert received and processed",
		Status:    statusSuccess,
		Timestamp: now,
	})
}

// correlationID prefers the request trace id, then the legacy X-Trace-Id
// header, then a fresh id.
func correlationID(r *http.Request) string {
	if traceID, _ := telemetry.TraceIDs(r.Context()); traceID != "" {
		return traceID
	}
	if id := r.Header.Get(headerTraceID); id != "" {
		return id
	}
	return uuid.New().String()
}
