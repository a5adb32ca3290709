package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/internal/cart"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/receipts"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/shops"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

type fixture struct {
	shops    *stubShops
	inv      *stubInventory
	registry *cart.Registry
	issuer   *stubIssuer
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		shops: &stubShops{record: &shops.ShopRecord{
			ShopName: "Corner Store", OwnerName: "Amina Khan", Address: "12 Canal Road",
		}},
		inv:      &stubInventory{},
		registry: cart.NewRegistry(),
		issuer:   &stubIssuer{},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(f.shops, f.inv, f.registry, f.issuer, nil, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) addToCart(t *testing.T, item inventory.Item, quantity int) {
	t.Helper()
	err := f.registry.WithLock("shop", func(c *cart.Cart) error {
		return c.AddLine(item, quantity)
	})
	if err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}

func (f *fixture) cartLines(t *testing.T) []cart.Line {
	t.Helper()
	var lines []cart.Line
	_ = f.registry.WithLock("shop", func(c *cart.Cart) error {
		lines = c.Lines()
		return nil
	})
	return lines
}

func penItem(quantity int) inventory.Item {
	return inventory.Item{
		Name:       "Pen",
		Categories: []string{"Stationery"},
		Quantity:   quantity,
		Price:      decimal.NewFromFloat(5.0),
	}
}

func TestCommitDeductsAndClearsCart(t *testing.T) {
	f := newFixture(t)
	f.inv.items = []inventory.Item{penItem(10)}
	f.addToCart(t, penItem(10), 7)

	result, err := f.svc.Commit(context.Background(), "shop", FormatText)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if result.ReceiptNumber != "sr#0001" {
		t.Fatalf("unexpected receipt number %q", result.ReceiptNumber)
	}
	if !result.Totals.TotalAmount.Equal(decimal.NewFromFloat(35.0)) {
		t.Fatalf("expected total 35.0, got %s", result.Totals.TotalAmount)
	}
	if len(result.ClampedLines) != 0 {
		t.Fatalf("unexpected clamped lines: %v", result.ClampedLines)
	}

	if f.inv.saved == nil || f.inv.saved[0].Quantity != 3 {
		t.Fatalf("expected stock 3 after commit, got %v", f.inv.saved)
	}
	if len(f.cartLines(t)) != 0 {
		t.Fatal("expected cart cleared after commit")
	}
}

func TestCommitEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Commit(context.Background(), "shop", FormatText)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCommitUnknownShop(t *testing.T) {
	f := newFixture(t)
	f.shops.missing = true
	_, err := f.svc.Commit(context.Background(), "shop", FormatText)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCommitUnsupportedFormats(t *testing.T) {
	f := newFixture(t)
	f.addToCart(t, penItem(10), 1)

	for _, format := range []OutputFormat{FormatPDF, FormatPrint} {
		_, err := f.svc.Commit(context.Background(), "shop", format)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodePrinterUnavailable {
			t.Fatalf("format %q: expected printer unavailable, got %v", format, err)
		}
	}

	_, err := f.svc.Commit(context.Background(), "shop", OutputFormat("docx"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown format, got %v", err)
	}
}

func TestCommitClampsOverDeduction(t *testing.T) {
	f := newFixture(t)
	// Stock moved under the open cart: 7 are carted but only 4 remain.
	f.inv.items = []inventory.Item{penItem(4)}
	f.addToCart(t, penItem(10), 7)

	result, err := f.svc.Commit(context.Background(), "shop", FormatText)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(result.ClampedLines) != 1 {
		t.Fatalf("expected one clamped line, got %v", result.ClampedLines)
	}
	clamp := result.ClampedLines[0]
	if clamp.Name != "Pen" || clamp.Requested != 7 || clamp.Deducted != 4 {
		t.Fatalf("unexpected clamp report: %+v", clamp)
	}
	if f.inv.saved[0].Quantity != 0 {
		t.Fatalf("expected stock floored at 0, got %d", f.inv.saved[0].Quantity)
	}
}

func TestCommitSkipsMissingItems(t *testing.T) {
	f := newFixture(t)
	f.inv.items = []inventory.Item{}
	f.addToCart(t, penItem(10), 2)

	result, err := f.svc.Commit(context.Background(), "shop", FormatText)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(result.SkippedLines) != 1 || result.SkippedLines[0] != "Pen" {
		t.Fatalf("expected Pen skipped, got %v", result.SkippedLines)
	}
}

func TestCommitPersistFailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	f.inv.items = []inventory.Item{penItem(10)}
	f.inv.saveErr = errors.New("disk full")
	f.addToCart(t, penItem(10), 7)

	_, err := f.svc.Commit(context.Background(), "shop", FormatText)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeIO {
		t.Fatalf("expected io error, got %v", err)
	}
	if len(f.cartLines(t)) != 1 {
		t.Fatal("expected cart retained after failed persist")
	}
}

func TestCommitReceiptFailureKeepsCartAndStock(t *testing.T) {
	f := newFixture(t)
	f.inv.items = []inventory.Item{penItem(10)}
	f.issuer.err = errors.New("bills dir unwritable")
	f.addToCart(t, penItem(10), 2)

	_, err := f.svc.Commit(context.Background(), "shop", FormatText)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeIO {
		t.Fatalf("expected io error, got %v", err)
	}
	if f.inv.saved != nil {
		t.Fatal("expected no inventory write after failed receipt")
	}
	if len(f.cartLines(t)) != 1 {
		t.Fatal("expected cart retained after failed receipt")
	}
}

type stubShops struct {
	record  *shops.ShopRecord
	missing bool
}

func (s *stubShops) Exists(ctx context.Context, folder string) bool { return !s.missing }

func (s *stubShops) Load(ctx context.Context, folder string) (*shops.ShopRecord, error) {
	return s.record, nil
}

type stubInventory struct {
	items   []inventory.Item
	saved   []inventory.Item
	saveErr error
}

func (s *stubInventory) Load(ctx context.Context, shop string) ([]inventory.Item, error) {
	items := make([]inventory.Item, len(s.items))
	copy(items, s.items)
	return items, nil
}

func (s *stubInventory) Save(ctx context.Context, shop string, items []inventory.Item) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = items
	return nil
}

type stubIssuer struct {
	issued int
	err    error
}

func (s *stubIssuer) Issue(ctx context.Context, shop string, header receipts.Header, lines []receipts.Line, total decimal.Decimal) (*receipts.Receipt, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.issued++
	number := receipts.Numbering{Prefix: "sr#", PadWidth: 4}.Format(s.issued)
	return &receipts.Receipt{
		Number:   number,
		Sequence: s.issued,
		Filename: number + ".txt",
		IssuedAt: time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC),
	}, nil
}
