package receipts

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRenderTextLayout(t *testing.T) {
	at := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	lines := []Line{
		{Name: "Pen", Quantity: 3, UnitPrice: decimal.NewFromFloat(5.0), TotalPrice: decimal.NewFromFloat(15.0)},
		{Name: "A very long item name indeed", Quantity: 1, UnitPrice: decimal.NewFromFloat(120.0), TotalPrice: decimal.NewFromFloat(120.0)},
	}

	text := RenderText(testHeader(), "sr#0042", at, lines, decimal.NewFromFloat(135.0))

	require.Contains(t, text, "Corner Store")
	require.Contains(t, text, "12 Canal Road")
	require.Contains(t, text, "Ph: 03001234567")
	require.Contains(t, text, "Receipt: sr#0042")
	require.Contains(t, text, "Date: 2026-09-01 12:30")
	require.Contains(t, text, "135.00")

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		require.LessOrEqual(t, len(line), receiptWidth, "line overflows: %q", line)
	}
}

func TestRenderTextClipsLongNames(t *testing.T) {
	lines := []Line{{Name: strings.Repeat("x", 40), Quantity: 1, UnitPrice: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(1)}}
	text := RenderText(Header{ShopName: "s"}, "sr#0001", time.Now(), lines, decimal.NewFromInt(1))
	require.NotContains(t, text, strings.Repeat("x", 14))
}
