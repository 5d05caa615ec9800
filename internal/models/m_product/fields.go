package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	ProductID = "product_id"
	SKU       = "sku"
	Name      = "name"
	Amount    = "amount"
	Payload   = "payload"
)

// Columns lists every products column in insert order.
var Columns = []string{
	ProductID,
	SKU,
	Name,
	Amount,
	Payload,
}
