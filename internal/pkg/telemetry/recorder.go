package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// Instrument names exported by the batch pipeline.
const (
	ProductsProcessed      = "batch_products_processed_total"
	ProductsLoyaltyUpdated = "batch_products_loyalty_updated_total"
	ProductsLoyaltyKept    = "batch_products_loyalty_kept_total"
	JobsCompleted          = "batch_job_completed_total"
	JobsFailed             = "batch_job_failed_total"
	ProductDuration        = "batch_product_processing_duration_seconds"

	applicationName = "batch-processing"
)

// Recorder implements contracts.Metrics on an OpenTelemetry meter.
type Recorder struct {
	processed metric.Int64Counter
	updated   metric.Int64Counter
	kept      metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
	attrs     metric.MeasurementOption
}

// NewRecorder registers the pipeline instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	r := &Recorder{
		attrs: metric.WithAttributes(attribute.String("application", applicationName)),
	}

	var err error
	if r.processed, err = meter.Int64Counter(ProductsProcessed,
		metric.WithDescription("Total number of products processed")); err != nil {
		return nil, fmt.Errorf("create %s: %w", ProductsProcessed, err)
	}
	if r.updated, err = meter.Int64Counter(ProductsLoyaltyUpdated,
		metric.WithDescription("Number of products with loyalty data updated")); err != nil {
		return nil, fmt.Errorf("create %s: %w", ProductsLoyaltyUpdated, err)
	}
	if r.kept, err = meter.Int64Counter(ProductsLoyaltyKept,
		metric.WithDescription("Number of products with original payload kept")); err != nil {
		return nil, fmt.Errorf("create %s: %w", ProductsLoyaltyKept, err)
	}
	if r.completed, err = meter.Int64Counter(JobsCompleted,
		metric.WithDescription("Number of completed batch jobs")); err != nil {
		return nil, fmt.Errorf("create %s: %w", JobsCompleted, err)
	}
	if r.failed, err = meter.Int64Counter(JobsFailed,
		metric.WithDescription("Number of failed batch jobs")); err != nil {
		return nil, fmt.Errorf("create %s: %w", JobsFailed, err)
	}
	if r.duration, err = meter.Float64Histogram(ProductDuration,
		metric.WithDescription("Time taken to process each product"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("create %s: %w", ProductDuration, err)
	}

	return r, nil
}

// RecordProduct counts one processed product.
func (r *Recorder) RecordProduct(ctx context.Context, wasEnriched bool, elapsed time.Duration) {
	r.processed.Add(ctx, 1, r.attrs)
	if wasEnriched {
		r.updated.Add(ctx, 1, r.attrs)
	} else {
		r.kept.Add(ctx, 1, r.attrs)
	}
	r.duration.Record(ctx, elapsed.Seconds(), r.attrs)
}

// RecordRun counts one finished run.
func (r *Recorder) RecordRun(ctx context.Context, state domain.RunState) {
	switch state {
	case domain.StateCompleted:
		r.completed.Add(ctx, 1, r.attrs)
	case domain.StateFailed:
		r.failed.Add(ctx, 1, r.attrs)
	}
}
