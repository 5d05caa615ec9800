// Command batch-client serves /client/trigger-batch, which calls the batch
// API with trace context propagated.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/light-bringer/procat-batch/internal/config"
	"github.com/light-bringer/procat-batch/internal/pkg/clock"
	"github.com/light-bringer/procat-batch/internal/pkg/logging"
	"github.com/light-bringer/procat-batch/internal/pkg/telemetry"
	httptransport "github.com/light-bringer/procat-batch/internal/transport/http"
	"github.com/light-bringer/procat-batch/internal/transport/http/client"
)

var configPath = flag.String("config", "", "Path to YAML config file (defaults to $BATCH_CONFIG)")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("Failed to run batch client: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	provider, err := telemetry.Setup(client.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.NewRealClock()
	api := client.NewAPIClient(cfg.Client.BatchAPIURL, cfg.Client.Timeout, provider.TracerProvider, clk, logger)
	handler := client.NewRouter(client.NewHandler(api, clk, logger), provider.TracerProvider, logger)

	logger.Info("starting batch client", "batch_api_url", cfg.Client.BatchAPIURL, "http_port", cfg.Client.HTTPPort)

	return httptransport.Run(ctx, logger, httptransport.ServerConfig{
		Service:         client.ServiceName,
		Addr:            ":" + cfg.Client.HTTPPort,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, handler)
}
