// Package config loads process configuration for the batch binaries.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/light-bringer/procat-batch/internal/pkg/env"
	"github.com/light-bringer/procat-batch/internal/platform/objectstore"
	"github.com/light-bringer/procat-batch/internal/platform/postgres"
)

// Store backends.
const (
	BackendSpanner  = "spanner"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Export types.
const (
	ExportAll     = "all"
	ExportPayload = "payload"
)

// PathEnv names the variable holding the YAML config path.
const PathEnv = "BATCH_CONFIG"

// Config is the full process configuration.
type Config struct {
	Backend         string          `yaml:"store_backend"`
	SpannerDatabase string          `yaml:"spanner_database"`
	Postgres        postgres.Config `yaml:"postgres"`

	HTTPPort        string        `yaml:"http_port"`
	GRPCPort        string        `yaml:"grpc_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Pipeline Pipeline `yaml:"pipeline"`
	Log      Log      `yaml:"log"`
	Client   Client   `yaml:"client"`
	Export   Export   `yaml:"export"`

	ServiceName string `yaml:"service_name"`
}

// Pipeline holds the orchestrator parameters.
type Pipeline struct {
	ReferencePath       string  `yaml:"reference_path"`
	ProductPath         string  `yaml:"product_path"`
	ChunkSize           int     `yaml:"chunk_size"`
	Workers             int     `yaml:"workers"`
	MaxCommitsPerSecond float64 `yaml:"max_commits_per_second"`
	PersistReference    bool    `yaml:"persist_reference"`
}

// Log holds logger settings.
type Log struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Client holds the batch client settings.
type Client struct {
	BatchAPIURL string        `yaml:"batch_api_url"`
	HTTPPort    string        `yaml:"http_port"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Export holds the CSV export job settings.
type Export struct {
	Type          string             `yaml:"type"`
	PayloadFilter string             `yaml:"payload_filter"`
	OutputDir     string             `yaml:"output_dir"`
	ObjectStore   objectstore.Config `yaml:"object_store"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:         BackendSpanner,
		SpannerDatabase: "projects/test-project/instances/test-instance/databases/batch-db",
		Postgres:        postgres.DefaultConfig(),
		HTTPPort:        "8080",
		GRPCPort:        "9090",
		ShutdownTimeout: 10 * time.Second,
		Pipeline: Pipeline{
			ReferencePath:    "data/loyality_data.csv",
			ProductPath:      "data/product-data.csv",
			ChunkSize:        10,
			Workers:          1,
			PersistReference: true,
		},
		Log: Log{
			Format: "json",
			Level:  "info",
		},
		Client: Client{
			BatchAPIURL: "http://localhost:8080",
			HTTPPort:    "8081",
			Timeout:     30 * time.Second,
		},
		Export: Export{
			Type:        ExportAll,
			OutputDir:   "exports",
			ObjectStore: objectstore.DefaultConfig(),
		},
		ServiceName: "batch-processing",
	}
}

// Load resolves the configuration. path may be empty, in which case the
// BATCH_CONFIG variable is consulted.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Backend = env.String("STORE_BACKEND", c.Backend)
	c.SpannerDatabase = env.String("SPANNER_DATABASE", c.SpannerDatabase)
	c.Postgres.URL = env.String("DATABASE_URL", c.Postgres.URL)
	if c.Postgres.PingTimeout, err = env.Duration("DATABASE_PING_TIMEOUT", c.Postgres.PingTimeout); err != nil {
		return err
	}
	if c.Postgres.MaxConns, err = env.Int("DATABASE_MAX_CONNS", c.Postgres.MaxConns); err != nil {
		return err
	}

	c.HTTPPort = env.String("HTTP_PORT", c.HTTPPort)
	c.GRPCPort = env.String("GRPC_PORT", c.GRPCPort)
	if c.ShutdownTimeout, err = env.Duration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}

	c.Pipeline.ReferencePath = env.String("REFERENCE_PATH", c.Pipeline.ReferencePath)
	c.Pipeline.ProductPath = env.String("PRODUCT_PATH", c.Pipeline.ProductPath)
	if c.Pipeline.ChunkSize, err = env.Int("CHUNK_SIZE", c.Pipeline.ChunkSize); err != nil {
		return err
	}
	if c.Pipeline.Workers, err = env.Int("WORKERS", c.Pipeline.Workers); err != nil {
		return err
	}
	if c.Pipeline.MaxCommitsPerSecond, err = env.Float("MAX_COMMITS_PER_SECOND", c.Pipeline.MaxCommitsPerSecond); err != nil {
		return err
	}
	if c.Pipeline.PersistReference, err = env.Bool("PERSIST_REFERENCE", c.Pipeline.PersistReference); err != nil {
		return err
	}

	c.Log.Format = env.String("LOG_FORMAT", c.Log.Format)
	c.Log.Level = env.String("LOG_LEVEL", c.Log.Level)
	c.ServiceName = env.String("OTEL_SERVICE_NAME", c.ServiceName)

	c.Client.BatchAPIURL = env.String("BATCH_API_URL", c.Client.BatchAPIURL)
	c.Client.HTTPPort = env.String("CLIENT_HTTP_PORT", c.Client.HTTPPort)
	if c.Client.Timeout, err = env.Duration("CLIENT_TIMEOUT", c.Client.Timeout); err != nil {
		return err
	}

	c.Export.Type = env.String("EXPORT_TYPE", c.Export.Type)
	c.Export.PayloadFilter = env.String("PAYLOAD_FILTER", c.Export.PayloadFilter)
	c.Export.OutputDir = env.String("OUTPUT_DIR", c.Export.OutputDir)
	c.Export.ObjectStore.Endpoint = env.String("EXPORT_MINIO_ENDPOINT", c.Export.ObjectStore.Endpoint)
	c.Export.ObjectStore.AccessKey = env.String("EXPORT_MINIO_ACCESS_KEY", c.Export.ObjectStore.AccessKey)
	c.Export.ObjectStore.SecretKey = env.String("EXPORT_MINIO_SECRET_KEY", c.Export.ObjectStore.SecretKey)
	c.Export.ObjectStore.Region = env.String("EXPORT_MINIO_REGION", c.Export.ObjectStore.Region)
	c.Export.ObjectStore.Bucket = env.String("EXPORT_BUCKET", c.Export.ObjectStore.Bucket)
	if c.Export.ObjectStore.UseSSL, err = env.Bool("EXPORT_MINIO_USE_SSL", c.Export.ObjectStore.UseSSL); err != nil {
		return err
	}

	return nil
}

// Validate rejects configurations the binaries cannot run with.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSpanner:
		if c.SpannerDatabase == "" {
			return errors.New("SPANNER_DATABASE is required for the spanner backend")
		}
	case BackendPostgres:
		if err := c.Postgres.Validate(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	if c.Pipeline.ReferencePath == "" || c.Pipeline.ProductPath == "" {
		return errors.New("REFERENCE_PATH and PRODUCT_PATH are required")
	}
	if c.Pipeline.ChunkSize < 1 {
		return errors.New("CHUNK_SIZE must be >= 1")
	}
	if c.Pipeline.Workers < 1 {
		return errors.New("WORKERS must be >= 1")
	}
	if c.Pipeline.MaxCommitsPerSecond < 0 {
		return errors.New("MAX_COMMITS_PER_SECOND must be >= 0")
	}

	switch c.Export.Type {
	case ExportAll:
	case ExportPayload:
		if c.Export.PayloadFilter == "" {
			return errors.New("PAYLOAD_FILTER is required when EXPORT_TYPE=payload")
		}
	default:
		return fmt.Errorf("unknown EXPORT_TYPE %q", c.Export.Type)
	}
	if c.Export.ObjectStore.Enabled() {
		if err := c.Export.ObjectStore.Validate(); err != nil {
			return fmt.Errorf("export object store: %w", err)
		}
	}

	return nil
}
