package receipts

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const receiptWidth = 35

// Header carries the shop fields printed at the top of a receipt.
type Header struct {
	ShopName      string
	Address       string
	MobileNumbers []string
}

// Line is one sold item as it appears on the receipt.
type Line struct {
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// RenderText produces the printable receipt body: a 35-column layout
// with the shop block, receipt number, timestamp, item table and total.
func RenderText(header Header, number string, at time.Time, lines []Line, total decimal.Decimal) string {
	stars := strings.Repeat("*", receiptWidth)
	dashes := strings.Repeat("-", receiptWidth)

	var b strings.Builder
	b.WriteString(stars + "\n")
	b.WriteString(center(header.ShopName) + "\n")
	if header.Address != "" {
		b.WriteString(center(header.Address) + "\n")
	}
	for _, phone := range header.MobileNumbers {
		b.WriteString(center("Ph: "+phone) + "\n")
	}
	b.WriteString(stars + "\n")
	b.WriteString(fmt.Sprintf("Receipt: %s\n", number))
	b.WriteString(fmt.Sprintf("Date: %s\n", at.Format("2006-01-02 15:04")))
	b.WriteString(dashes + "\n")
	b.WriteString(fmt.Sprintf("%-13s %3s %7s %9s\n", "Item", "Qty", "Price", "Total"))
	b.WriteString(dashes + "\n")
	for _, line := range lines {
		b.WriteString(fmt.Sprintf("%-13s %3d %7s %9s\n",
			clip(line.Name, 13),
			line.Quantity,
			line.UnitPrice.StringFixed(2),
			line.TotalPrice.StringFixed(2)))
	}
	b.WriteString(dashes + "\n")
	b.WriteString(fmt.Sprintf("%-18s %16s\n", "Total", total.StringFixed(2)))
	b.WriteString(stars + "\n")
	b.WriteString(center("Thank you for shopping!") + "\n")
	return b.String()
}

func center(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	pad := (receiptWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width]
}
