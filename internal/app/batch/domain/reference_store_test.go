package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceStore_LastWriteWins(t *testing.T) {
	store := NewReferenceStore()

	rows := []ReferenceRecord{
		{Key: 100, Value: "Loyality_on"},
		{Key: 200, Value: "Loyality_off"},
		{Key: 100, Value: "Loyality_mid"},
	}
	for _, r := range rows {
		require.NoError(t, store.Put(r))
	}

	v, ok := store.Lookup(100)
	require.True(t, ok)
	assert.Equal(t, "Loyality_mid", v)

	v, ok = store.Lookup(200)
	require.True(t, ok)
	assert.Equal(t, "Loyality_off", v)

	assert.Equal(t, 2, store.Len())
}

func TestReferenceStore_Freeze(t *testing.T) {
	store := NewReferenceStore()
	require.NoError(t, store.Put(ReferenceRecord{Key: 1, Value: "a"}))
	assert.False(t, store.Frozen())

	store.Freeze()
	store.Freeze()
	assert.True(t, store.Frozen())

	err := store.Put(ReferenceRecord{Key: 1, Value: "b"})
	assert.ErrorIs(t, err, ErrStoreFrozen)

	v, _ := store.Lookup(1)
	assert.Equal(t, "a", v, "frozen store keeps its values")
}

func TestReferenceStore_LookupMiss(t *testing.T) {
	store := NewReferenceStore()
	store.Freeze()

	_, ok := store.Lookup(42)
	assert.False(t, ok)
}

func TestReferenceStore_ConcurrentReaders(t *testing.T) {
	store := NewReferenceStore()
	for i := int64(0); i < 100; i++ {
		require.NoError(t, store.Put(ReferenceRecord{Key: i, Value: "v"}))
	}
	store.Freeze()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := int64(0); i < 100; i++ {
				_, ok := store.Lookup(i)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}
