package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/models/m_loyalty"
)

// PgLoyaltyRepo implements ReferenceWriter for Postgres.
type PgLoyaltyRepo struct {
	pool PgxPool
}

// NewPgLoyaltyRepo creates a new PgLoyaltyRepo.
func NewPgLoyaltyRepo(pool PgxPool) *PgLoyaltyRepo {
	return &PgLoyaltyRepo{pool: pool}
}

var _ contracts.ReferenceWriter = (*PgLoyaltyRepo)(nil)

// WriteReferences upserts one chunk of loyalty rows in one transaction.
func (r *PgLoyaltyRepo) WriteReferences(ctx context.Context, chunkIndex int, records []domain.ReferenceRecord) error {
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(m_loyalty.UpsertSQL, rec.Key, rec.Value)
	}

	if err := execBatch(ctx, r.pool, "write loyalty data", batch); err != nil {
		return &domain.PersistenceError{
			ChunkIndex: chunkIndex,
			IDs:        referenceKeys(records),
			Err:        err,
		}
	}
	return nil
}
