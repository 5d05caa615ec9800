package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/testutil"
)

func TestMemoryStore_UpsertOverwritesAllColumns(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.WriteChunk(ctx, testutil.ProductChunk(0,
		domain.ProductRecord{ID: 1, SKU: 100, Name: "Widget", Amount: 5, Payload: "orig1"},
	)))
	require.NoError(t, store.WriteChunk(ctx, testutil.ProductChunk(1,
		domain.ProductRecord{ID: 1, SKU: 101, Name: "Widget v2", Amount: 6, Payload: "Loyality_on"},
	)))

	p, ok := store.Product(1)
	require.True(t, ok)
	assert.Equal(t, domain.ProductRecord{ID: 1, SKU: 101, Name: "Widget v2", Amount: 6, Payload: "Loyality_on"}, p)

	n, err := store.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 2, store.Commits())
}

func TestMemoryStore_References(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.WriteReferences(context.Background(), 0, []domain.ReferenceRecord{
		{Key: 100, Value: "Loyality_on"},
		{Key: 100, Value: "Loyality_mid"},
	}))

	v, ok := store.Loyalty(100)
	require.True(t, ok)
	assert.Equal(t, "Loyality_mid", v)
}

func TestMemoryStore_ReadModel(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.WriteChunk(ctx, testutil.ProductChunk(0,
		domain.ProductRecord{ID: 3, Payload: domain.PayloadLoyaltyOn},
		domain.ProductRecord{ID: 1, Payload: domain.PayloadLoyaltyOff},
		domain.ProductRecord{ID: 2, Payload: domain.PayloadLoyaltyOn},
	)))

	on, err := store.CountByPayload(ctx, domain.PayloadLoyaltyOn)
	require.NoError(t, err)
	assert.Equal(t, int64(2), on)

	all, err := store.ListProducts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

	filtered, err := store.ListProducts(ctx, &contracts.ListFilter{Payload: domain.PayloadLoyaltyOn, Limit: 1})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].ID)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore()

	err := store.WriteChunk(ctx, testutil.ProductChunk(5, domain.ProductRecord{ID: 1}))

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 5, pe.ChunkIndex)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Commits())
}
