package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopkeeperhq/shopkeeper-backend/internal/cart"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/receipts"
	"github.com/shopkeeperhq/shopkeeper-backend/internal/shops"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/metrics"
)

// OutputFormat selects the receipt artifact kind requested at commit.
type OutputFormat string

const (
	FormatText  OutputFormat = "txt"
	FormatPDF   OutputFormat = "pdf"
	FormatPrint OutputFormat = "print"
)

type shopReader interface {
	Exists(ctx context.Context, folder string) bool
	Load(ctx context.Context, folder string) (*shops.ShopRecord, error)
}

type inventoryStore interface {
	Load(ctx context.Context, shop string) ([]inventory.Item, error)
	Save(ctx context.Context, shop string, items []inventory.Item) error
}

type cartRegistry interface {
	WithLock(shop string, fn func(c *cart.Cart) error) error
}

type receiptIssuer interface {
	Issue(ctx context.Context, shop string, header receipts.Header, lines []receipts.Line, total decimal.Decimal) (*receipts.Receipt, error)
}

// ClampedLine reports one cart line whose deduction hit the floor: the
// cart held more than the inventory did at commit time.
type ClampedLine struct {
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Deducted  int    `json:"deducted"`
}

// Result describes a completed commit.
type Result struct {
	ReceiptNumber string        `json:"receipt_number"`
	Artifact      string        `json:"artifact"`
	Totals        cart.Totals   `json:"totals"`
	ClampedLines  []ClampedLine `json:"clamped_lines,omitempty"`
	SkippedLines  []string      `json:"skipped_lines,omitempty"`
	CommittedAt   time.Time     `json:"committed_at"`
}

// Service commits carts against inventory.
type Service interface {
	Commit(ctx context.Context, shop string, format OutputFormat) (*Result, error)
}

type service struct {
	shops     shopReader
	inventory inventoryStore
	carts     cartRegistry
	receipts  receiptIssuer
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger

	// serializes commits per shop so two concurrent checkouts cannot
	// interleave their read-deduct-write cycles.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(
	shopRepo shopReader,
	inv inventoryStore,
	carts cartRegistry,
	issuer receiptIssuer,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if shopRepo == nil {
		return nil, fmt.Errorf("shop reader required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart registry required")
	}
	if issuer == nil {
		return nil, fmt.Errorf("receipt issuer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		shops:     shopRepo,
		inventory: inv,
		carts:     carts,
		receipts:  issuer,
		metrics:   checkoutMetrics,
		logg:      logg,
		locks:     map[string]*sync.Mutex{},
	}, nil
}

func (s *service) shopLock(shop string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[shop]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[shop] = lock
	}
	return lock
}

// Commit applies the shop's cart to inventory. Order matters: the
// receipt artifact is written first, then each line is deducted with
// over-deductions clamped at zero, then inventory persists atomically.
// The cart clears only after the write lands, so a failed persist
// leaves the operator free to retry.
func (s *service) Commit(ctx context.Context, shop string, format OutputFormat) (*Result, error) {
	start := time.Now()
	result, err := s.commit(ctx, shop, format)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncFailure(shop)
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDuration(shop, time.Since(start))
		s.metrics.IncReceipt(shop)
	}
	return result, nil
}

func (s *service) commit(ctx context.Context, shop string, format OutputFormat) (*Result, error) {
	switch format {
	case "", FormatText:
	case FormatPDF, FormatPrint:
		return nil, pkgerrors.New(pkgerrors.CodePrinterUnavailable,
			"no printer or PDF backend is configured; use the txt format")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown receipt format")
	}

	if !s.shops.Exists(ctx, shop) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	record, err := s.shops.Load(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "load shop record")
	}

	lock := s.shopLock(shop)
	lock.Lock()
	defer lock.Unlock()

	var result *Result
	err = s.carts.WithLock(shop, func(c *cart.Cart) error {
		if c.Empty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		lines := c.Lines()
		totals := c.Totals()

		receipt, err := s.receipts.Issue(ctx, shop, receiptHeader(record), receiptLines(lines), totals.TotalAmount)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeIO, err, "issue receipt")
		}

		items, err := s.inventory.Load(ctx, shop)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeIO, err, "load inventory")
		}
		clamped, skipped := deduct(items, lines)

		if err := s.inventory.Save(ctx, shop, items); err != nil {
			// The artifact is already on disk but stock was not
			// deducted; the retained cart lets the operator retry.
			return pkgerrors.Wrap(pkgerrors.CodeIO, err, "persist inventory")
		}
		c.Clear()

		logCtx := s.logg.WithReceipt(s.logg.WithShop(ctx, shop), receipt.Number)
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"lines":    totals.Lines,
			"quantity": totals.TotalQuantity,
			"amount":   totals.TotalAmount.StringFixed(2),
			"clamped":  len(clamped),
		})
		s.logg.Info(logCtx, "checkout committed")
		for range clamped {
			s.metrics.IncClamped(shop)
		}

		result = &Result{
			ReceiptNumber: receipt.Number,
			Artifact:      receipt.Filename,
			Totals:        totals,
			ClampedLines:  clamped,
			SkippedLines:  skipped,
			CommittedAt:   receipt.IssuedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// deduct subtracts each cart line from its inventory item by name.
// Quantities floor at zero under the clamp-to-zero policy; every
// clamped line is reported rather than silently absorbed. Lines naming
// no inventory item are skipped.
func deduct(items []inventory.Item, lines []cart.Line) (clamped []ClampedLine, skipped []string) {
	for _, line := range lines {
		idx := -1
		for i := range items {
			if strings.EqualFold(items[i].Name, line.Name) {
				idx = i
				break
			}
		}
		if idx < 0 {
			skipped = append(skipped, line.Name)
			continue
		}
		remaining := items[idx].Quantity - line.Quantity
		if remaining < 0 {
			clamped = append(clamped, ClampedLine{
				Name:      items[idx].Name,
				Requested: line.Quantity,
				Deducted:  items[idx].Quantity,
			})
			remaining = 0
		}
		items[idx].Quantity = remaining
	}
	return clamped, skipped
}

func receiptHeader(record *shops.ShopRecord) receipts.Header {
	return receipts.Header{
		ShopName:      record.ShopName,
		Address:       record.Address,
		MobileNumbers: record.MobileNumbers,
	}
}

func receiptLines(lines []cart.Line) []receipts.Line {
	out := make([]receipts.Line, 0, len(lines))
	for _, line := range lines {
		out = append(out, receipts.Line{
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.TotalPrice,
		})
	}
	return out
}
