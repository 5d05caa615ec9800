// Command export writes the products table to a timestamped CSV file and
// optionally uploads it to an S3-compatible bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/light-bringer/procat-batch/internal/config"
	"github.com/light-bringer/procat-batch/internal/pkg/logging"
	"github.com/light-bringer/procat-batch/internal/platform/objectstore"
	"github.com/light-bringer/procat-batch/internal/services"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (defaults to $BATCH_CONFIG)")
	exportType := flag.String("type", "", "Export type: all or payload (overrides EXPORT_TYPE)")
	payload := flag.String("payload", "", "Payload filter for -type=payload (overrides PAYLOAD_FILTER)")
	outputDir := flag.String("output", "", "Output directory (overrides OUTPUT_DIR)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *exportType != "" {
		cfg.Export.Type = *exportType
	}
	if *payload != "" {
		cfg.Export.PayloadFilter = *payload
	}
	if *outputDir != "" {
		cfg.Export.OutputDir = *outputDir
	}

	if err := export(context.Background(), cfg); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	log.Println("Export completed successfully")
}

func export(ctx context.Context, cfg config.Config) error {
	if cfg.Backend == config.BackendMemory {
		return fmt.Errorf("export needs a persistent store backend, got %q", cfg.Backend)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer func() { _ = serviceOpts.Shutdown(context.Background()) }()

	if serviceOpts.MinIOClient != nil {
		if err := objectstore.EnsureBucket(ctx, serviceOpts.MinIOClient, cfg.Export.ObjectStore); err != nil {
			return fmt.Errorf("failed to prepare bucket: %w", err)
		}
	}

	log.Printf("Starting product export...")
	log.Printf("  Type: %s", cfg.Export.Type)
	log.Printf("  Output directory: %s", cfg.Export.OutputDir)

	switch cfg.Export.Type {
	case config.ExportAll:
		result, err := serviceOpts.ExportProducts.ExportAll(ctx)
		if err != nil {
			return err
		}
		log.Printf("Exported %d products to %s (uploaded: %v)", result.Rows, result.Path, result.Uploaded)

	case config.ExportPayload:
		log.Printf("  Payload filter: %s", cfg.Export.PayloadFilter)
		result, err := serviceOpts.ExportProducts.ExportByPayload(ctx, cfg.Export.PayloadFilter)
		if err != nil {
			return err
		}
		log.Printf("Exported %d products to %s (uploaded: %v)", result.Rows, result.Path, result.Uploaded)

	default:
		return fmt.Errorf("unknown export type %q", cfg.Export.Type)
	}

	return nil
}
