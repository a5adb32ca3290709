package inventory

import "github.com/shopspring/decimal"

// Item is one stock record. Name is unique within a shop, compared
// case-insensitively. Quantity is the authoritative stock count.
type Item struct {
	Name       string
	Categories []string
	Quantity   int
	Price      decimal.Decimal
}

// Totals summarizes a shop's inventory.
type Totals struct {
	Items         int             `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
