package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/models/m_product"
)

// PgProductRepo implements ProductWriter for Postgres.
type PgProductRepo struct {
	pool  PgxPool
	model *m_product.Model
}

// NewPgProductRepo creates a new PgProductRepo.
func NewPgProductRepo(pool PgxPool) *PgProductRepo {
	return &PgProductRepo{
		pool:  pool,
		model: m_product.NewModel(),
	}
}

var _ contracts.ProductWriter = (*PgProductRepo)(nil)

// WriteChunk upserts the chunk in one transaction.
func (r *PgProductRepo) WriteChunk(ctx context.Context, chunk domain.Chunk) error {
	batch := &pgx.Batch{}
	for _, item := range chunk.Items {
		data := m_product.Data{
			ProductID: item.ID,
			SKU:       item.SKU,
			Name:      item.Name,
			Amount:    item.Amount,
			Payload:   item.Payload,
		}
		batch.Queue(m_product.UpsertSQL, r.model.Values(&data)...)
	}

	if err := execBatch(ctx, r.pool, "write products", batch); err != nil {
		return domain.NewPersistenceError(chunk, err)
	}
	return nil
}
