package product_stats

import (
	"context"
	"fmt"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
)

// Stats is the loyalty breakdown of the products table.
type Stats struct {
	Total      int64 `json:"total"`
	LoyaltyOn  int64 `json:"loyalty_on"`
	LoyaltyOff int64 `json:"loyalty_off"`
}

// Query handles the product stats query use case.
type Query struct {
	stats contracts.ProductStatsReader
}

// NewQuery creates a new product stats query.
func NewQuery(stats contracts.ProductStatsReader) *Query {
	return &Query{
		stats: stats,
	}
}

// Execute counts all products and those carrying each loyalty payload.
func (q *Query) Execute(ctx context.Context) (*Stats, error) {
	total, err := q.stats.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	on, err := q.stats.CountByPayload(ctx, domain.PayloadLoyaltyOn)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", domain.PayloadLoyaltyOn, err)
	}
	off, err := q.stats.CountByPayload(ctx, domain.PayloadLoyaltyOff)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", domain.PayloadLoyaltyOff, err)
	}

	return &Stats{Total: total, LoyaltyOn: on, LoyaltyOff: off}, nil
}
