package repo

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/models/m_product"
	"github.com/light-bringer/procat-batch/internal/pkg/committer"
)

// ProductRepo implements ProductWriter for Spanner.
type ProductRepo struct {
	committer *committer.Committer
	model     *m_product.Model
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(comm *committer.Committer) *ProductRepo {
	return &ProductRepo{
		committer: comm,
		model:     m_product.NewModel(),
	}
}

var _ contracts.ProductWriter = (*ProductRepo)(nil)

// UpsertMut creates an insert-or-update mutation for one enriched product.
func (r *ProductRepo) UpsertMut(product domain.EnrichedProduct) *spanner.Mutation {
	return r.model.UpsertMut(r.domainToData(product))
}

// PlanChunk collects the mutations of a chunk into one commit plan.
func (r *ProductRepo) PlanChunk(chunk domain.Chunk) *committer.CommitPlan {
	muts := make([]*spanner.Mutation, 0, chunk.Len())
	for _, item := range chunk.Items {
		muts = append(muts, r.UpsertMut(item))
	}

	plan := committer.NewPlan()
	plan.AddMultiple(muts)
	return plan
}

// WriteChunk commits the chunk in a single Spanner apply.
func (r *ProductRepo) WriteChunk(ctx context.Context, chunk domain.Chunk) error {
	if err := r.committer.Apply(ctx, r.PlanChunk(chunk)); err != nil {
		return domain.NewPersistenceError(chunk, classifySpanner("write products", err))
	}
	return nil
}

// domainToData converts an enriched product to database Data.
// WasEnriched is not persisted.
func (r *ProductRepo) domainToData(product domain.EnrichedProduct) *m_product.Data {
	return &m_product.Data{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Amount:    product.Amount,
		Payload:   product.Payload,
	}
}
