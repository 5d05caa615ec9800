//go:build integration

package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/models/m_loyalty"
	"github.com/light-bringer/procat-batch/internal/models/m_product"
	"github.com/light-bringer/procat-batch/internal/pkg/committer"
	"github.com/light-bringer/procat-batch/internal/testutil"
)

func TestSpannerRepos_Integration(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	comm := committer.NewCommitter(client)
	products := NewProductRepo(comm)
	loyalty := NewLoyaltyRepo(comm)
	readModel := NewReadModel(client)

	require.NoError(t, loyalty.WriteReferences(ctx, 0, []domain.ReferenceRecord{
		{Key: 100, Value: domain.PayloadLoyaltyOn},
		{Key: 100, Value: domain.PayloadLoyaltyOff},
	}))
	testutil.AssertRowCount(t, client, m_loyalty.TableName, 1)

	chunk := testutil.ProductChunk(0, testutil.ScenarioExpected...)
	require.NoError(t, products.WriteChunk(ctx, chunk))
	// Idempotent: the same chunk twice leaves the same rows
	require.NoError(t, products.WriteChunk(ctx, chunk))
	testutil.AssertRowCount(t, client, m_product.TableName, 2)

	listed, err := readModel.ListProducts(ctx, &contracts.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, testutil.ScenarioExpected, listed)

	n, err := readModel.CountByPayload(ctx, "orig2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
