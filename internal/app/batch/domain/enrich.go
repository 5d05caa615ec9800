package domain

// Enrich replaces the product payload with the loyalty value registered for
// its sku. A missing sku is an expected outcome: the payload is kept and
// WasEnriched is false. The input record is not modified.
func Enrich(product ProductRecord, store ReferenceLookup) EnrichedProduct {
	out := EnrichedProduct{ProductRecord: product}

	if value, ok := store.Lookup(product.SKU); ok {
		out.Payload = value
		out.WasEnriched = true
	}

	return out
}
