package repo

import (
	"context"
	"fmt"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/models/m_product"
	"github.com/light-bringer/procat-batch/internal/pkg/query"
)

// PgReadModel implements ReadModel for Postgres.
type PgReadModel struct {
	pool PgxPool
}

// NewPgReadModel creates a new Postgres ReadModel.
func NewPgReadModel(pool PgxPool) contracts.ReadModel {
	return &PgReadModel{pool: pool}
}

// CountProducts returns the number of rows in the products table.
func (rm *PgReadModel) CountProducts(ctx context.Context) (int64, error) {
	stmt := query.From(m_product.TableName).Dialect(query.Postgres).Count().Build()
	return rm.count(ctx, stmt)
}

// CountByPayload returns the number of products carrying payload.
func (rm *PgReadModel) CountByPayload(ctx context.Context, payload string) (int64, error) {
	stmt := query.From(m_product.TableName).
		Dialect(query.Postgres).
		Where(query.Eq(m_product.Payload, payload)).
		Count().
		Build()
	return rm.count(ctx, stmt)
}

// ListProducts retrieves products ordered by id.
func (rm *PgReadModel) ListProducts(ctx context.Context, filter *contracts.ListFilter) ([]domain.ProductRecord, error) {
	stmt := listQuery(filter).Dialect(query.Postgres).Build()

	rows, err := rm.pool.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", classifyPostgres("list products", err))
	}
	defer rows.Close()

	products := make([]domain.ProductRecord, 0)
	for rows.Next() {
		var data m_product.Data
		if err := rows.Scan(&data.ProductID, &data.SKU, &data.Name, &data.Amount, &data.Payload); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		products = append(products, dataToRecord(&data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", classifyPostgres("list products", err))
	}

	return products, nil
}

func (rm *PgReadModel) count(ctx context.Context, stmt query.Statement) (int64, error) {
	var n int64
	if err := rm.pool.QueryRow(ctx, stmt.SQL, stmt.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", classifyPostgres("count products", err))
	}
	return n, nil
}
