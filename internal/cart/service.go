package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
)

type inventoryLoader interface {
	Load(ctx context.Context, shop string) ([]inventory.Item, error)
}

type shopChecker interface {
	Exists(ctx context.Context, folder string) bool
}

type cartRegistry interface {
	WithLock(shop string, fn func(c *Cart) error) error
}

// Snapshot is the cart as rendered to a caller.
type Snapshot struct {
	Lines  []Line `json:"lines"`
	Totals Totals `json:"totals"`
}

// Service exposes cart accumulation for one shop at a time.
type Service interface {
	Get(ctx context.Context, shop string) (*Snapshot, error)
	AddLine(ctx context.Context, shop, itemName string, quantity int) (*Snapshot, error)
	Clear(ctx context.Context, shop string) error
}

type service struct {
	registry  cartRegistry
	inventory inventoryLoader
	shops     shopChecker
}

func NewService(registry cartRegistry, inv inventoryLoader, shops shopChecker) (Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("cart registry required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory loader required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop checker required")
	}
	return &service{registry: registry, inventory: inv, shops: shops}, nil
}

func (s *service) Get(ctx context.Context, shop string) (*Snapshot, error) {
	if !s.shops.Exists(ctx, shop) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	var snapshot *Snapshot
	err := s.registry.WithLock(shop, func(c *Cart) error {
		snapshot = snapshotOf(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// AddLine reserves quantity of the named item against current stock and
// returns the updated cart.
func (s *service) AddLine(ctx context.Context, shop, itemName string, quantity int) (*Snapshot, error) {
	if !s.shops.Exists(ctx, shop) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	items, err := s.inventory.Load(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "load inventory")
	}
	item, ok := findItem(items, itemName)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	var snapshot *Snapshot
	err = s.registry.WithLock(shop, func(c *Cart) error {
		if err := c.AddLine(item, quantity); err != nil {
			return err
		}
		snapshot = snapshotOf(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *service) Clear(ctx context.Context, shop string) error {
	if !s.shops.Exists(ctx, shop) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return s.registry.WithLock(shop, func(c *Cart) error {
		c.Clear()
		return nil
	})
}

func snapshotOf(c *Cart) *Snapshot {
	return &Snapshot{Lines: c.Lines(), Totals: c.Totals()}
}

func findItem(items []inventory.Item, name string) (inventory.Item, bool) {
	for _, item := range items {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return inventory.Item{}, false
}
