package m_product

import (
	"cloud.google.com/go/spanner"
)

// UpsertSQL is the Postgres insert-or-update statement for one product.
// Every non-key column is overwritten on conflict.
const UpsertSQL = `INSERT INTO products (product_id, sku, name, amount, payload)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (product_id) DO UPDATE SET
	sku = EXCLUDED.sku,
	name = EXCLUDED.name,
	amount = EXCLUDED.amount,
	payload = EXCLUDED.payload`

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation that inserts the product or replaces
// all non-key columns of an existing row with the same id.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName, Columns, m.Values(data))
}

// Values returns the column values of data in Columns order.
func (m *Model) Values(data *Data) []interface{} {
	return []interface{}{
		data.ProductID,
		data.SKU,
		data.Name,
		data.Amount,
		data.Payload,
	}
}
