package m_loyalty

// Field name constants for the loyalty_data table.
const (
	TableName = "loyalty_data"

	SKU   = "sku"
	Value = "value"
)

// Columns lists every loyalty_data column in insert order.
var Columns = []string{SKU, Value}
