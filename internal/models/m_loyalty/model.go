package m_loyalty

import "cloud.google.com/go/spanner"

// UpsertSQL is the Postgres insert-or-update statement for one loyalty row.
const UpsertSQL = `INSERT INTO loyalty_data (sku, value)
VALUES ($1, $2)
ON CONFLICT (sku) DO UPDATE SET value = EXCLUDED.value`

// Model provides a facade for type-safe operations on the loyalty_data table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation that inserts or replaces a loyalty row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName, Columns, []interface{}{data.SKU, data.Value})
}
