// Command runjob executes one enrichment pipeline run and exits non-zero when
// the run fails.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/config"
	"github.com/light-bringer/procat-batch/internal/pkg/logging"
	"github.com/light-bringer/procat-batch/internal/services"
)

var (
	configPath = flag.String("config", "", "Path to YAML config file (defaults to $BATCH_CONFIG)")
	reference  = flag.String("reference", "", "Reference (loyalty) CSV path, overrides config")
	products   = flag.String("products", "", "Product CSV path, overrides config")
	chunkSize  = flag.Int("chunk-size", 0, "Products per commit, overrides config")
	workers    = flag.Int("workers", 0, "Concurrent chunk commits, overrides config")
)

func main() {
	flag.Parse()

	summary, err := run()
	if summary != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summary)
	}
	if err != nil {
		log.Fatalf("Batch job failed: %v", err)
	}
}

func run() (*domain.Summary, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize service: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = serviceOpts.Shutdown(shutdownCtx)
	}()

	req := serviceOpts.PipelineRequest()
	if *reference != "" {
		req.ReferencePath = *reference
	}
	if *products != "" {
		req.ProductPath = *products
	}
	if *chunkSize > 0 {
		req.ChunkSize = *chunkSize
	}
	if *workers > 0 {
		req.Workers = *workers
	}

	result, err := serviceOpts.RunPipeline.Execute(ctx, &req)
	if result == nil {
		return nil, err
	}
	summary := domain.NewSummary(result)
	return &summary, err
}
