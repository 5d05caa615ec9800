// Package report summarizes finished pipeline runs.
package report

import (
	"context"
	"log/slog"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// Reporter logs one structured summary per finished run and updates the
// run-level metrics.
type Reporter struct {
	logger  *slog.Logger
	metrics contracts.Metrics
	stats   contracts.ProductStatsReader
}

// NewReporter creates a Reporter. stats may be nil, in which case table
// statistics are not reported.
func NewReporter(logger *slog.Logger, metrics contracts.Metrics, stats contracts.ProductStatsReader) *Reporter {
	if metrics == nil {
		metrics = contracts.NopMetrics{}
	}
	return &Reporter{
		logger:  logger,
		metrics: metrics,
		stats:   stats,
	}
}

var _ contracts.CompletionReporter = (*Reporter)(nil)

// Report builds the run summary and logs it.
func (r *Reporter) Report(ctx context.Context, result *domain.PipelineResult) domain.Summary {
	summary := domain.NewSummary(result)

	if summary.State == domain.StateCompleted && r.stats != nil {
		r.addTableStats(ctx, &summary)
	}

	r.metrics.RecordRun(ctx, summary.State)

	attrs := []any{
		"run_id", summary.RunID,
		"correlation_id", summary.CorrelationID,
		"state", summary.State,
		"processed", summary.Counts.Processed,
		"enriched", summary.Counts.Enriched,
		"kept", summary.Counts.Kept,
		"committed", summary.Counts.Committed,
		"chunks_committed", summary.Counts.ChunksCommitted,
		"duration_ms", summary.DurationMs,
	}

	if summary.State == domain.StateFailed {
		r.logger.ErrorContext(ctx, "batch job failed", append(attrs, "cause", summary.Cause)...)
		return summary
	}

	if summary.TableRows != nil {
		attrs = append(attrs, "table_rows", *summary.TableRows)
	}
	if summary.LoyaltyOn != nil {
		attrs = append(attrs, "loyalty_on", *summary.LoyaltyOn)
	}
	if summary.LoyaltyOff != nil {
		attrs = append(attrs, "loyalty_off", *summary.LoyaltyOff)
	}
	r.logger.InfoContext(ctx, "batch job completed", attrs...)

	return summary
}

// addTableStats reads the persisted table counts. Read failures are logged
// and leave the fields unset.
func (r *Reporter) addTableStats(ctx context.Context, summary *domain.Summary) {
	total, err := r.stats.CountProducts(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "read product count", "run_id", summary.RunID, "error", err)
		return
	}
	summary.TableRows = &total

	on, err := r.stats.CountByPayload(ctx, domain.PayloadLoyaltyOn)
	if err != nil {
		r.logger.WarnContext(ctx, "read loyalty_on count", "run_id", summary.RunID, "error", err)
		return
	}
	summary.LoyaltyOn = &on

	off, err := r.stats.CountByPayload(ctx, domain.PayloadLoyaltyOff)
	if err != nil {
		r.logger.WarnContext(ctx, "read loyalty_off count", "run_id", summary.RunID, "error", err)
		return
	}
	summary.LoyaltyOff = &off
}
