package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// Metrics receives pipeline measurements. The wire format is up to the
// implementation.
type Metrics interface {
	// RecordProduct counts one processed product and its processing time
	RecordProduct(ctx context.Context, wasEnriched bool, elapsed time.Duration)

	// RecordRun counts one finished run by terminal state
	RecordRun(ctx context.Context, state domain.RunState)
}

// CompletionReporter summarizes a run once it reaches a terminal state.
type CompletionReporter interface {
	Report(ctx context.Context, result *domain.PipelineResult) domain.Summary
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) RecordProduct(context.Context, bool, time.Duration) {}

func (NopMetrics) RecordRun(context.Context, domain.RunState) {}
