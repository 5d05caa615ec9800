package repo

import (
	"context"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/models/m_loyalty"
	"github.com/light-bringer/procat-batch/internal/pkg/committer"
)

// LoyaltyRepo implements ReferenceWriter for Spanner.
type LoyaltyRepo struct {
	committer *committer.Committer
	model     *m_loyalty.Model
}

// NewLoyaltyRepo creates a new LoyaltyRepo.
func NewLoyaltyRepo(comm *committer.Committer) *LoyaltyRepo {
	return &LoyaltyRepo{
		committer: comm,
		model:     m_loyalty.NewModel(),
	}
}

var _ contracts.ReferenceWriter = (*LoyaltyRepo)(nil)

// WriteReferences upserts one chunk of loyalty rows atomically. Mutations
// are applied in order so a repeated sku keeps its last value.
func (r *LoyaltyRepo) WriteReferences(ctx context.Context, chunkIndex int, records []domain.ReferenceRecord) error {
	plan := committer.NewPlan()
	for _, rec := range records {
		plan.Add(r.model.UpsertMut(&m_loyalty.Data{SKU: rec.Key, Value: rec.Value}))
	}

	if err := r.committer.Apply(ctx, plan); err != nil {
		return &domain.PersistenceError{
			ChunkIndex: chunkIndex,
			IDs:        referenceKeys(records),
			Err:        classifySpanner("write loyalty data", err),
		}
	}
	return nil
}
