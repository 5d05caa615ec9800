package contracts

import (
	"context"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// ProductWriter persists enriched products with insert-or-update semantics.
// Each WriteChunk call is one atomic commit: either every row of the chunk is
// persisted or none is. Failures are returned as *domain.PersistenceError.
type ProductWriter interface {
	WriteChunk(ctx context.Context, chunk domain.Chunk) error
}

// ReferenceWriter persists loyalty reference rows keyed by sku.
// Later rows for the same sku overwrite earlier ones.
type ReferenceWriter interface {
	WriteReferences(ctx context.Context, chunkIndex int, records []domain.ReferenceRecord) error
}
