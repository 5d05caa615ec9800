package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadStore(t *testing.T, records ...ReferenceRecord) *ReferenceStore {
	t.Helper()
	store := NewReferenceStore()
	for _, rec := range records {
		require.NoError(t, store.Put(rec))
	}
	store.Freeze()
	return store
}

func TestEnrich(t *testing.T) {
	store := loadStore(t,
		ReferenceRecord{Key: 100, Value: PayloadLoyaltyOn},
		ReferenceRecord{Key: 200, Value: PayloadLoyaltyOff},
	)

	tests := []struct {
		name         string
		in           ProductRecord
		wantPayload  string
		wantEnriched bool
	}{
		{
			name:         "hit replaces payload",
			in:           ProductRecord{ID: 1, SKU: 100, Name: "Widget", Amount: 5, Payload: "orig1"},
			wantPayload:  PayloadLoyaltyOn,
			wantEnriched: true,
		},
		{
			name:         "miss keeps payload",
			in:           ProductRecord{ID: 2, SKU: 300, Name: "Gadget", Amount: 3, Payload: "orig2"},
			wantPayload:  "orig2",
			wantEnriched: false,
		},
		{
			name:         "hit with same value still counts as enriched",
			in:           ProductRecord{ID: 3, SKU: 200, Name: "Gizmo", Amount: 1, Payload: PayloadLoyaltyOff},
			wantPayload:  PayloadLoyaltyOff,
			wantEnriched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			out := Enrich(in, store)

			assert.Equal(t, tt.wantPayload, out.Payload)
			assert.Equal(t, tt.wantEnriched, out.WasEnriched)

			// Non-payload fields pass through untouched.
			assert.Equal(t, tt.in.ID, out.ID)
			assert.Equal(t, tt.in.SKU, out.SKU)
			assert.Equal(t, tt.in.Name, out.Name)
			assert.Equal(t, tt.in.Amount, out.Amount)

			// Input is not mutated.
			assert.Equal(t, tt.in, in)
		})
	}
}

func TestEnrich_LawHoldsForEveryRecord(t *testing.T) {
	store := loadStore(t,
		ReferenceRecord{Key: 1, Value: "a"},
		ReferenceRecord{Key: 3, Value: "c"},
		ReferenceRecord{Key: 5, Value: "e"},
	)

	for sku := int64(0); sku < 8; sku++ {
		p := ProductRecord{ID: sku + 10, SKU: sku, Payload: "orig"}
		out := Enrich(p, store)

		if value, ok := store.Lookup(sku); ok {
			assert.Equal(t, value, out.Payload, "sku %d", sku)
			assert.True(t, out.WasEnriched, "sku %d", sku)
		} else {
			assert.Equal(t, p.Payload, out.Payload, "sku %d", sku)
			assert.False(t, out.WasEnriched, "sku %d", sku)
		}
	}
}
