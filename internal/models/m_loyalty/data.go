package m_loyalty

// Data represents the database model for the loyalty_data table.
type Data struct {
	SKU   int64  `spanner:"sku"`
	Value string `spanner:"value"`
}
