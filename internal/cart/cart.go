package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
)

// Line is one pending-sale entry, referencing an inventory item by name.
// The unit price is copied at add time so later price edits do not move
// an open cart.
type Line struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Totals summarizes a cart.
type Totals struct {
	Lines         int             `json:"lines"`
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Cart is an ordered list of lines for one shop. It is a plain value;
// callers serialize access through the registry.
type Cart struct {
	lines []Line
}

// Reserved returns the quantity already carted for the named item.
func (c *Cart) Reserved(name string) int {
	reserved := 0
	for _, line := range c.lines {
		if strings.EqualFold(line.Name, name) {
			reserved += line.Quantity
		}
	}
	return reserved
}

// Remaining is the sellable quantity for the item: stock minus what the
// cart already holds.
func (c *Cart) Remaining(item inventory.Item) int {
	remaining := item.Quantity - c.Reserved(item.Name)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AddLine reserves quantity against the item's current stock. A line for
// the same item merges by summing quantities and recomputing the total.
func (c *Cart) AddLine(item inventory.Item, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	remaining := c.Remaining(item)
	if quantity > remaining {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds available stock").
			WithDetails(map[string]int{"requested": quantity, "available": remaining})
	}

	for i := range c.lines {
		if strings.EqualFold(c.lines[i].Name, item.Name) {
			c.lines[i].Quantity += quantity
			c.lines[i].TotalPrice = c.lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.lines[i].Quantity)))
			return nil
		}
	}
	c.lines = append(c.lines, Line{
		Name:       item.Name,
		Quantity:   quantity,
		UnitPrice:  item.Price,
		TotalPrice: item.Price.Mul(decimal.NewFromInt(int64(quantity))),
	})
	return nil
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart's lines in add order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Totals() Totals {
	totals := Totals{Lines: len(c.lines), TotalAmount: decimal.Zero}
	for _, line := range c.lines {
		totals.TotalQuantity += line.Quantity
		totals.TotalAmount = totals.TotalAmount.Add(line.TotalPrice)
	}
	return totals
}
