package list_products

import (
	"context"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Request contains filtering parameters.
type Request struct {
	Payload string
	Limit   int
}

// Query handles the list products query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list products query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves persisted products ordered by id.
func (q *Query) Execute(ctx context.Context, req *Request) ([]domain.ProductRecord, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return q.readModel.ListProducts(ctx, &contracts.ListFilter{
		Payload: req.Payload,
		Limit:   limit,
	})
}
