package contracts

import (
	"context"

	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// ListFilter defines filtering options for listing persisted products.
type ListFilter struct {
	Payload string // exact payload match, empty for all
	Limit   int    // 0 for no limit
}

// ProductStatsReader exposes aggregate counts of the products table.
type ProductStatsReader interface {
	// CountProducts returns the number of persisted products
	CountProducts(ctx context.Context) (int64, error)

	// CountByPayload returns the number of products with the given payload
	CountByPayload(ctx context.Context, payload string) (int64, error)
}

// ReadModel defines the read side of the products table.
type ReadModel interface {
	ProductStatsReader

	// ListProducts returns persisted products ordered by id
	ListProducts(ctx context.Context, filter *ListFilter) ([]domain.ProductRecord, error)
}
