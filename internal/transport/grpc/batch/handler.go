package batch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/app/batch/queries/product_stats"
	"github.com/light-bringer/procat-batch/internal/app/batch/usecases/run_pipeline"
	"github.com/light-bringer/procat-batch/internal/pkg/clock"
	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
)

// metadataTraceID is the legacy correlation key sent by older clients.
const metadataTraceID = "x-trace-id"

// PipelineRunner runs one pipeline to completion.
type PipelineRunner interface {
	Execute(ctx context.Context, req *run_pipeline.Request) (*domain.PipelineResult, error)
}

// Handler implements BatchServiceServer.
// It's a thin coordinator that delegates to the run pipeline use case and the
// product stats query.
type Handler struct {
	runner       PipelineRunner
	productStats *product_stats.Query
	defaults     run_pipeline.Request
	clock        clock.Clock
	logger       *slog.Logger
}

var _ BatchServiceServer = (*Handler)(nil)

// NewHandler creates a new gRPC batch handler. productStats may be nil.
func NewHandler(
	runner PipelineRunner,
	productStats *product_stats.Query,
	defaults run_pipeline.Request,
	clk clock.Clock,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		runner:       runner,
		productStats: productStats,
		defaults:     defaults,
		clock:        clk,
		logger:       logger,
	}
}

// StartBatch runs one pipeline and returns {status, message, timestamp} plus
// the run counters.
func (h *Handler) StartBatch(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	// 1. Build the run request from the configured defaults
	req := h.defaults
	req.CorrelationID = correlationID(ctx)

	// 2. Run to completion; client cancellation does not abort the run
	result, err := h.runner.Execute(context.WithoutCancel(ctx), &req)
	if err != nil {
		h.logger.ErrorContext(ctx, "grpc start batch failed", "correlation_id", req.CorrelationID, "error", err)
		return nil, mapDomainErrorToGRPC("Failed to start batch job", err)
	}

	// 3. Map result to response
	counts := result.Counts()
	reply, err := structpb.NewStruct(map[string]interface{}{
		"status":    "success",
		"message":   domain.NewSummary(result).Message,
		"timestamp": h.clock.Now().UnixMilli(),
		"run_id":    result.RunID,
		"state":     string(result.State()),
		"processed": counts.Processed,
		"enriched":  counts.Enriched,
		"kept":      counts.Kept,
		"committed": counts.Committed,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build response: %v", err)
	}
	return reply, nil
}

// GetProductStats returns the loyalty breakdown of the products table.
func (h *Handler) GetProductStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if h.productStats == nil {
		return nil, status.Error(codes.Unimplemented, "product stats are not available for this store")
	}

	stats, err := h.productStats.Execute(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "grpc product stats failed", "error", err)
		return nil, mapDomainErrorToGRPC("Failed to read product stats", err)
	}

	reply, err := structpb.NewStruct(map[string]interface{}{
		"total":       stats.Total,
		"loyalty_on":  stats.LoyaltyOn,
		"loyalty_off": stats.LoyaltyOff,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build response: %v", err)
	}
	return reply, nil
}

func correlationID(ctx context.Context) string {
	if traceID, _ := telemetry.TraceIDs(ctx); traceID != "" {
		return traceID
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(metadataTraceID); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.New().String()
}
