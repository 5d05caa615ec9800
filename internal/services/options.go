package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"cloud.google.com/go/spanner"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"golang.org/x/time/rate"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/queries/list_products"
	"github.com/light-bringer/procat-batch/internal/app/batch/queries/product_stats"
	"github.com/light-bringer/procat-batch/internal/app/batch/report"
	"github.com/light-bringer/procat-batch/internal/app/batch/repo"
	"github.com/light-bringer/procat-batch/internal/app/batch/usecases/export_products"
	"github.com/light-bringer/procat-batch/internal/app/batch/usecases/load_reference"
	"github.com/light-bringer/procat-batch/internal/app/batch/usecases/run_pipeline"
	"github.com/light-bringer/procat-batch/internal/config"
	"github.com/light-bringer/procat-batch/internal/ingestion"
	"github.com/light-bringer/procat-batch/internal/pkg/clock"
	"github.com/light-bringer/procat-batch/internal/pkg/committer"
	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
	"github.com/light-bringer/procat-batch/internal/platform/objectstore"
	"github.com/light-bringer/procat-batch/internal/platform/postgres"
	grpcbatch "github.com/light-bringer/procat-batch/internal/transport/grpc/batch"
	httptransport "github.com/light-bringer/procat-batch/internal/transport/http"
)

const instrumentationName = "github.com/light-bringer/procat-batch"

// Option overrides a dependency of the container.
type Option func(*ServiceOptions)

// WithSourceOpener replaces the CSV file opener, e.g. with in-memory inputs.
func WithSourceOpener(opener contracts.SourceOpener) Option {
	return func(s *ServiceOptions) { s.opener = opener }
}

// WithClock replaces the real clock.
func WithClock(clk clock.Clock) Option {
	return func(s *ServiceOptions) { s.Clock = clk }
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Config    config.Config
	Logger    *slog.Logger
	Clock     clock.Clock
	Telemetry *telemetry.Provider

	// Exactly one of these is set for the spanner and postgres backends.
	SpannerClient *spanner.Client
	PgPool        *pgxpool.Pool
	MinIOClient   *minio.Client

	ReadModel contracts.ReadModel

	LoadReference  *load_reference.Interactor
	RunPipeline    *run_pipeline.Interactor
	ExportProducts *export_products.Interactor
	ListProducts   *list_products.Query
	ProductStats   *product_stats.Query

	HTTPHandler  http.Handler
	BatchHandler *grpcbatch.Handler

	opener          contracts.SourceOpener
	productWriter   contracts.ProductWriter
	referenceWriter contracts.ReferenceWriter
}

// NewServiceOptions creates and wires up all application dependencies for the
// configured store backend.
func NewServiceOptions(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*ServiceOptions, error) {
	s := newServiceOptions(cfg, logger, opts...)
	if err := s.build(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newServiceOptions(cfg config.Config, logger *slog.Logger, opts ...Option) *ServiceOptions {
	s := &ServiceOptions{
		Config: cfg,
		Logger: logger,
		Clock:  clock.NewRealClock(),
		opener: ingestion.NewFileOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// build wires the container. On failure everything already started,
// including the global telemetry providers, is shut down.
func (s *ServiceOptions) build(ctx context.Context) (err error) {
	cfg, logger := s.Config, s.Logger
	defer func() {
		if err != nil {
			_ = s.Shutdown(context.WithoutCancel(ctx))
		}
	}()

	// 1. Initialize telemetry
	provider, err := telemetry.Setup(cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	s.Telemetry = provider

	recorder, err := telemetry.NewRecorder(provider.MeterProvider.Meter(instrumentationName))
	if err != nil {
		return fmt.Errorf("failed to create metrics recorder: %w", err)
	}

	// 2. Initialize the store backend and repositories
	if err := s.initStore(ctx); err != nil {
		return err
	}

	// 3. Initialize the export object store
	var uploader contracts.ExportUploader
	if cfg.Export.ObjectStore.Enabled() {
		s.MinIOClient, err = objectstore.NewMinIOClient(cfg.Export.ObjectStore)
		if err != nil {
			return fmt.Errorf("failed to create object store client: %w", err)
		}
		uploader = objectstore.NewUploader(s.MinIOClient, cfg.Export.ObjectStore.Bucket)
	}

	// 4. Create command use cases
	s.LoadReference = load_reference.NewInteractor(s.opener, s.referenceWriter, logger)

	reporter := report.NewReporter(logger, recorder, s.ReadModel)

	pipelineOpts := []run_pipeline.Option{
		run_pipeline.WithTracer(provider.Tracer(instrumentationName)),
	}
	if cfg.Pipeline.MaxCommitsPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.Pipeline.MaxCommitsPerSecond), 1)
		pipelineOpts = append(pipelineOpts, run_pipeline.WithCommitLimiter(limiter))
	}
	s.RunPipeline = run_pipeline.NewInteractor(
		s.LoadReference,
		s.opener,
		s.productWriter,
		recorder,
		reporter,
		s.Clock,
		logger,
		pipelineOpts...,
	)

	s.ExportProducts = export_products.NewInteractor(s.ReadModel, uploader, s.Clock, cfg.Export.OutputDir, logger)

	// 5. Create query use cases
	s.ListProducts = list_products.NewQuery(s.ReadModel)
	s.ProductStats = product_stats.NewQuery(s.ReadModel)

	// 6. Create transport handlers
	defaults := s.PipelineRequest()
	s.HTTPHandler = httptransport.NewRouter(httptransport.RouterConfig{
		Logger:   logger,
		Service:  cfg.ServiceName,
		Batch:    httptransport.NewBatchHandler(s.RunPipeline, defaults, s.Clock, logger),
		Products: httptransport.NewProductsHandler(s.ListProducts, s.ProductStats, logger),
		Metrics: func(ctx context.Context) (map[string]any, error) {
			return telemetry.Snapshot(ctx, provider.Reader)
		},
		TracerProvider: provider.TracerProvider,
	})
	s.BatchHandler = grpcbatch.NewHandler(s.RunPipeline, s.ProductStats, defaults, s.Clock, logger)

	return nil
}

func (s *ServiceOptions) initStore(ctx context.Context) error {
	switch s.Config.Backend {
	case config.BackendSpanner:
		client, err := spanner.NewClient(ctx, s.Config.SpannerDatabase)
		if err != nil {
			return fmt.Errorf("failed to create Spanner client: %w", err)
		}
		s.SpannerClient = client

		comm := committer.NewCommitter(client)
		s.productWriter = repo.NewProductRepo(comm)
		s.referenceWriter = repo.NewLoyaltyRepo(comm)
		s.ReadModel = repo.NewReadModel(client)

	case config.BackendPostgres:
		pool, err := postgres.Open(ctx, s.Config.Postgres)
		if err != nil {
			return fmt.Errorf("failed to open Postgres: %w", err)
		}
		s.PgPool = pool

		s.productWriter = repo.NewPgProductRepo(pool)
		s.referenceWriter = repo.NewPgLoyaltyRepo(pool)
		s.ReadModel = repo.NewPgReadModel(pool)

	case config.BackendMemory:
		store := repo.NewMemoryStore()
		s.productWriter = store
		s.referenceWriter = store
		s.ReadModel = store

	default:
		return fmt.Errorf("unknown store backend %q", s.Config.Backend)
	}
	return nil
}

// PipelineRequest returns the run request built from the pipeline settings.
func (s *ServiceOptions) PipelineRequest() run_pipeline.Request {
	return run_pipeline.Request{
		ReferencePath:    s.Config.Pipeline.ReferencePath,
		ProductPath:      s.Config.Pipeline.ProductPath,
		ChunkSize:        s.Config.Pipeline.ChunkSize,
		Workers:          s.Config.Pipeline.Workers,
		PersistReference: s.Config.Pipeline.PersistReference,
	}
}

// Shutdown flushes telemetry and closes all resources.
func (s *ServiceOptions) Shutdown(ctx context.Context) error {
	var errs []error
	if s.Telemetry != nil {
		if err := s.Telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		s.Telemetry = nil
	}
	s.Close()
	return errors.Join(errs...)
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
		s.SpannerClient = nil
	}
	if s.PgPool != nil {
		s.PgPool.Close()
		s.PgPool = nil
	}
}
