package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/procat-batch/internal/config"
	"github.com/light-bringer/procat-batch/internal/pkg/logging"
	"github.com/light-bringer/procat-batch/internal/services"
	grpcbatch "github.com/light-bringer/procat-batch/internal/transport/grpc/batch"
	httptransport "github.com/light-bringer/procat-batch/internal/transport/http"
)

var configPath = flag.String("config", "", "Path to YAML config file (defaults to $BATCH_CONFIG)")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting batch service",
		"backend", cfg.Backend,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"chunk_size", cfg.Pipeline.ChunkSize,
		"workers", cfg.Pipeline.Workers,
	)

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := serviceOpts.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	// 3. Create gRPC server with BatchService, health and reflection
	grpcServer, healthServer := grpcbatch.NewServer(serviceOpts.BatchHandler, serviceOpts.Telemetry.TracerProvider)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	// 4. Start gRPC server
	g.Go(func() error {
		logger.Info("grpc server listening", "addr", lis.Addr().String())
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		return nil
	})

	// 5. Start HTTP server; returns after graceful shutdown
	g.Go(func() error {
		return httptransport.Run(gctx, logger, httptransport.ServerConfig{
			Service:         cfg.ServiceName,
			Addr:            ":" + cfg.HTTPPort,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, serviceOpts.HTTPHandler)
	})

	err = g.Wait()
	logger.Info("shutting down gracefully")
	return err
}
