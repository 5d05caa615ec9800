package m_product

// Data represents the database model for the products table.
type Data struct {
	ProductID int64  `spanner:"product_id"`
	SKU       int64  `spanner:"sku"`
	Name      string `spanner:"name"`
	Amount    int64  `spanner:"amount"`
	Payload   string `spanner:"payload"`
}
