//go:build integration

package repo

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/platform/postgres"
	"github.com/light-bringer/procat-batch/internal/testutil"
)

func TestPostgresRepos_Integration(t *testing.T) {
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	ctx := context.Background()
	cfg := postgres.DefaultConfig()
	cfg.URL = url
	pool, err := postgres.Open(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, "TRUNCATE products, loyalty_data")
	require.NoError(t, err)

	products := NewPgProductRepo(pool)
	readModel := NewPgReadModel(pool)

	chunk := testutil.ProductChunk(0, testutil.ScenarioExpected...)
	require.NoError(t, products.WriteChunk(ctx, chunk))
	require.NoError(t, products.WriteChunk(ctx, chunk))

	total, err := readModel.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	listed, err := readModel.ListProducts(ctx, &contracts.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, testutil.ScenarioExpected, listed)
}
