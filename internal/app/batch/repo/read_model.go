package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-batch/internal/app/batch/contracts"
	"github.com/light-bringer/procat-batch/internal/app/batch/domain"
	"github.com/light-bringer/procat-batch/internal/models/m_product"
	"github.com/light-bringer/procat-batch/internal/pkg/query"
)

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client *spanner.Client
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) contracts.ReadModel {
	return &ReadModelImpl{
		client: client,
	}
}

// CountProducts returns the number of rows in the products table.
func (rm *ReadModelImpl) CountProducts(ctx context.Context) (int64, error) {
	stmt := query.From(m_product.TableName).Count().Build()
	return rm.count(ctx, stmt.Spanner())
}

// CountByPayload returns the number of products carrying payload.
func (rm *ReadModelImpl) CountByPayload(ctx context.Context, payload string) (int64, error) {
	stmt := query.From(m_product.TableName).
		Where(query.Eq(m_product.Payload, payload)).
		Count().
		Build()
	return rm.count(ctx, stmt.Spanner())
}

// ListProducts retrieves products ordered by id.
func (rm *ReadModelImpl) ListProducts(ctx context.Context, filter *contracts.ListFilter) ([]domain.ProductRecord, error) {
	stmt := listQuery(filter).Build()

	iter := rm.client.Single().Query(ctx, stmt.Spanner())
	defer iter.Stop()

	products := make([]domain.ProductRecord, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", classifySpanner("list products", err))
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		products = append(products, dataToRecord(&data))
	}

	return products, nil
}

func (rm *ReadModelImpl) count(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", classifySpanner("count products", err))
	}

	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return n, nil
}

// listQuery builds the product listing query shared by both SQL backends.
func listQuery(filter *contracts.ListFilter) *query.Builder {
	b := query.From(m_product.TableName).Select(m_product.Columns...)
	if filter != nil {
		if filter.Payload != "" {
			b = b.Where(query.Eq(m_product.Payload, filter.Payload))
		}
		if filter.Limit > 0 {
			b = b.Limit(int64(filter.Limit))
		}
	}
	return b.OrderBy(m_product.ProductID, query.Asc)
}

func dataToRecord(data *m_product.Data) domain.ProductRecord {
	return domain.ProductRecord{
		ID:      data.ProductID,
		SKU:     data.SKU,
		Name:    data.Name,
		Amount:  data.Amount,
		Payload: data.Payload,
	}
}
