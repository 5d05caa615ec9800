package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendSpanner, cfg.Backend)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "9090", cfg.GRPCPort)
	assert.Equal(t, "data/loyality_data.csv", cfg.Pipeline.ReferencePath)
	assert.Equal(t, "data/product-data.csv", cfg.Pipeline.ProductPath)
	assert.Equal(t, 10, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
	assert.True(t, cfg.Pipeline.PersistReference)
	assert.Equal(t, "8081", cfg.Client.HTTPPort)
	assert.Equal(t, ExportAll, cfg.Export.Type)
	assert.False(t, cfg.Export.ObjectStore.Enabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_backend: memory
pipeline:
  chunk_size: 50
  workers: 4
  reference_path: /in/loyalty.csv
shutdown_timeout: 3s
log:
  format: text
`), 0o600))

	t.Setenv("WORKERS", "2")
	t.Setenv("PERSIST_REFERENCE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 50, cfg.Pipeline.ChunkSize)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, "/in/loyalty.csv", cfg.Pipeline.ReferencePath)
	assert.Equal(t, "data/product-data.csv", cfg.Pipeline.ProductPath)
	assert.False(t, cfg.Pipeline.PersistReference)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: \"18080\"\n"), 0o600))
	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "18080", cfg.HTTPPort)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(PathEnv, "")

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("CHUNK_SIZE", "ten")
		_, err := Load("")
		assert.ErrorContains(t, err, "CHUNK_SIZE")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "mysql" }},
		{"spanner without database", func(c *Config) { c.SpannerDatabase = "" }},
		{"postgres without url", func(c *Config) { c.Backend = BackendPostgres; c.Postgres.URL = "" }},
		{"zero chunk size", func(c *Config) { c.Pipeline.ChunkSize = 0 }},
		{"zero workers", func(c *Config) { c.Pipeline.Workers = 0 }},
		{"negative rate", func(c *Config) { c.Pipeline.MaxCommitsPerSecond = -1 }},
		{"missing product path", func(c *Config) { c.Pipeline.ProductPath = "" }},
		{"payload export without filter", func(c *Config) { c.Export.Type = ExportPayload }},
		{"unknown export type", func(c *Config) { c.Export.Type = "some" }},
		{"bucket with bad endpoint", func(c *Config) {
			c.Export.ObjectStore.Bucket = "exports"
			c.Export.ObjectStore.Endpoint = "http://minio:9000"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
