package run_pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/app/batch/usecases/load_reference"
	"github.com/light-bringer/procat-batch/internal/pkg/clock"
)

const tracerName = "github.com/light-bringer/procat-batch/run_pipeline"

// Request contains the inputs of one pipeline run.
type Request struct {
	CorrelationID    string
	ReferencePath    string
	ProductPath      string
	ChunkSize        int
	Workers          int
	PersistReference bool
}

// Option configures optional collaborators of the Interactor.
type Option func(*Interactor)

// WithTracer sets the tracer used for run and chunk spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(i *Interactor) { i.tracer = tracer }
}

// WithCommitLimiter throttles chunk commits.
func WithCommitLimiter(limiter *rate.Limiter) Option {
	return func(i *Interactor) { i.limiter = limiter }
}

// Interactor handles the run pipeline use case: load the reference store,
// then enrich and upsert products chunk by chunk.
type Interactor struct {
	loader   *load_reference.Interactor
	opener   contracts.SourceOpener
	writer   contracts.ProductWriter
	metrics  contracts.Metrics
	reporter contracts.CompletionReporter
	clock    clock.Clock
	logger   *slog.Logger
	tracer   trace.Tracer
	limiter  *rate.Limiter

	running atomic.Bool
}

// NewInteractor creates a new run pipeline interactor.
func NewInteractor(
	loader *load_reference.Interactor,
	opener contracts.SourceOpener,
	writer contracts.ProductWriter,
	metrics contracts.Metrics,
	reporter contracts.CompletionReporter,
	clock clock.Clock,
	logger *slog.Logger,
	opts ...Option,
) *Interactor {
	i := &Interactor{
		loader:   loader,
		opener:   opener,
		writer:   writer,
		metrics:  metrics,
		reporter: reporter,
		clock:    clock,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.metrics == nil {
		i.metrics = contracts.NopMetrics{}
	}
	return i
}

// Execute runs the pipeline to a terminal state. The returned error is the
// failure cause of the run, or a rejection (invalid request, run already in
// progress) in which case no result is returned.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.PipelineResult, error) {
	// 1. Validate request
	if err := i.validate(req); err != nil {
		return nil, err
	}

	// 2. Reject overlapping runs
	if !i.running.CompareAndSwap(false, true) {
		return nil, domain.ErrRunInProgress
	}
	defer i.running.Store(false)

	result := domain.NewPipelineResult(uuid.New().String(), req.CorrelationID, i.clock.Now())

	ctx, span := i.tracer.Start(ctx, "batch.pipeline", trace.WithAttributes(
		attribute.String("batch.run_id", result.RunID),
		attribute.String("batch.correlation_id", req.CorrelationID),
		attribute.Int("batch.chunk_size", req.ChunkSize),
		attribute.Int("batch.workers", req.Workers),
	))
	defer span.End()

	logger := i.logger.With("run_id", result.RunID, "correlation_id", req.CorrelationID)
	logger.InfoContext(ctx, "batch job started",
		"reference_path", req.ReferencePath,
		"product_path", req.ProductPath,
		"chunk_size", req.ChunkSize,
		"workers", req.Workers,
	)

	// 3. Run the state machine, then report exactly once
	err := i.run(ctx, logger, result, req)
	i.finish(ctx, span, result, err)

	return result, result.Err()
}

func (i *Interactor) run(ctx context.Context, logger *slog.Logger, result *domain.PipelineResult, req *Request) error {
	if err := result.Advance(domain.StateLoadingReference); err != nil {
		return err
	}

	ref, err := i.loader.Execute(ctx, &load_reference.Request{
		Path:      req.ReferencePath,
		ChunkSize: req.ChunkSize,
		Persist:   req.PersistReference,
	})
	if err != nil {
		return fmt.Errorf("load reference: %w", err)
	}
	result.ReferenceRows = ref.RowsRead

	if err := result.Advance(domain.StateEnrichingAndWriting); err != nil {
		return err
	}

	return i.process(ctx, logger, result, ref.Store, req)
}

// process enriches product rows and hands full chunks to the workers.
// No chunk starts once ctx is done or a chunk has failed.
func (i *Interactor) process(
	ctx context.Context,
	logger *slog.Logger,
	result *domain.PipelineResult,
	store domain.ReferenceLookup,
	req *Request,
) error {
	src, err := i.opener.Open(ctx, req.ProductPath)
	if err != nil {
		return fmt.Errorf("failed to open product input: %w", err)
	}
	defer src.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Workers)

	submit := func(chunk domain.Chunk) {
		g.Go(func() error {
			return i.commit(gctx, logger, result, chunk)
		})
	}

	var readErr error
	index := 0
	items := make([]domain.EnrichedProduct, 0, domain.ChunkCapacity(req.ChunkSize))

	for gctx.Err() == nil {
		row, err := src.Next(gctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			readErr = err
			break
		}

		started := i.clock.Now()
		product, err := domain.ParseProductRow(src.Name(), row.Line, row.Fields)
		if err != nil {
			readErr = err
			break
		}

		enriched := domain.Enrich(product, store)
		result.Counters().Record(enriched.WasEnriched)
		i.metrics.RecordProduct(ctx, enriched.WasEnriched, i.clock.Since(started))

		items = append(items, enriched)
		if len(items) == req.ChunkSize {
			submit(domain.Chunk{Index: index, Items: items})
			index++
			items = make([]domain.EnrichedProduct, 0, domain.ChunkCapacity(req.ChunkSize))
		}
	}

	if readErr == nil && gctx.Err() == nil && len(items) > 0 {
		submit(domain.Chunk{Index: index, Items: items})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}
	return ctx.Err()
}

// commit writes one chunk. A commit that has started is not cancelled with
// the run.
func (i *Interactor) commit(ctx context.Context, logger *slog.Logger, result *domain.PipelineResult, chunk domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if i.limiter != nil {
		if err := i.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	commitCtx, span := i.tracer.Start(context.WithoutCancel(ctx), "batch.commit_chunk", trace.WithAttributes(
		attribute.Int("batch.chunk_index", chunk.Index),
		attribute.Int("batch.chunk_len", chunk.Len()),
	))
	defer span.End()

	if err := i.writer.WriteChunk(commitCtx, chunk); err != nil {
		err = domain.NewPersistenceError(chunk, err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "chunk commit failed")
		logger.ErrorContext(commitCtx, "chunk commit failed", "chunk", chunk.Index, "error", err)
		return err
	}

	result.Counters().Committed(chunk.Len())
	logger.DebugContext(commitCtx, "chunk committed", "chunk", chunk.Index, "rows", chunk.Len())
	return nil
}

// finish moves the run to its terminal state and reports it.
func (i *Interactor) finish(ctx context.Context, span trace.Span, result *domain.PipelineResult, err error) {
	now := i.clock.Now()
	if err == nil {
		err = result.Complete(now)
	}
	if err != nil {
		result.Fail(err, now)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "batch job failed")
	}

	counts := result.Counts()
	span.SetAttributes(
		attribute.String("batch.state", string(result.State())),
		attribute.Int64("batch.processed", counts.Processed),
		attribute.Int64("batch.enriched", counts.Enriched),
		attribute.Int64("batch.kept", counts.Kept),
	)

	if i.reporter != nil {
		i.reporter.Report(context.WithoutCancel(ctx), result)
	}
}

// validate validates the request.
func (i *Interactor) validate(req *Request) error {
	if req.ReferencePath == "" || req.ProductPath == "" {
		return domain.ErrMissingInput
	}
	if req.ChunkSize < 1 {
		return domain.ErrInvalidChunkSize
	}
	if req.Workers < 1 {
		return domain.ErrInvalidWorkers
	}
	return nil
}
