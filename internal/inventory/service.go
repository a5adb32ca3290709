package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
)

type inventoryRepository interface {
	Load(ctx context.Context, shop string) ([]Item, error)
	Save(ctx context.Context, shop string, items []Item) error
}

type shopChecker interface {
	Exists(ctx context.Context, folder string) bool
}

// Service exposes inventory operations for one shop at a time.
type Service interface {
	List(ctx context.Context, shop string, filter Filter) ([]Item, error)
	Add(ctx context.Context, shop string, input ItemInput) (*Item, error)
	Update(ctx context.Context, shop, name string, input ItemInput) (*Item, error)
	Delete(ctx context.Context, shop, name string) error
	Categories(ctx context.Context, shop string) ([]string, error)
	Totals(ctx context.Context, shop string) (*Totals, error)
}

type service struct {
	repo  inventoryRepository
	shops shopChecker
}

func NewService(repo inventoryRepository, shops shopChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop checker required")
	}
	return &service{repo: repo, shops: shops}, nil
}

// ItemInput carries the fields of an item mutation.
type ItemInput struct {
	Name       string
	Categories []string
	Quantity   int
	Price      decimal.Decimal
}

// Filter narrows a listing. Query matches item names case-insensitively
// as a substring; Category matches one category label exactly.
type Filter struct {
	Query    string
	Category string
}

func (s *service) List(ctx context.Context, shop string, filter Filter) ([]Item, error) {
	items, err := s.load(ctx, shop)
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.TrimSpace(filter.Category)
	if query == "" && category == "" {
		return items, nil
	}

	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		if category != "" && !hasCategory(item, category) {
			continue
		}
		matched = append(matched, item)
	}
	return matched, nil
}

func (s *service) Add(ctx context.Context, shop string, input ItemInput) (*Item, error) {
	item, err := validateItem(input)
	if err != nil {
		return nil, err
	}
	items, err := s.load(ctx, shop)
	if err != nil {
		return nil, err
	}
	if indexByName(items, item.Name) >= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an item with this name already exists")
	}

	items = append(items, *item)
	if err := s.repo.Save(ctx, shop, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "save inventory")
	}
	return item, nil
}

// Update rewrites the named item in place, keeping its position in the
// listing order.
func (s *service) Update(ctx context.Context, shop, name string, input ItemInput) (*Item, error) {
	item, err := validateItem(input)
	if err != nil {
		return nil, err
	}
	items, err := s.load(ctx, shop)
	if err != nil {
		return nil, err
	}
	idx := indexByName(items, name)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if other := indexByName(items, item.Name); other >= 0 && other != idx {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an item with this name already exists")
	}

	items[idx] = *item
	if err := s.repo.Save(ctx, shop, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "save inventory")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, shop, name string) error {
	items, err := s.load(ctx, shop)
	if err != nil {
		return err
	}
	idx := indexByName(items, name)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	items = append(items[:idx], items[idx+1:]...)
	if err := s.repo.Save(ctx, shop, items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeIO, err, "save inventory")
	}
	return nil
}

// Categories returns the distinct category labels in use, sorted.
func (s *service) Categories(ctx context.Context, shop string) ([]string, error) {
	items, err := s.load(ctx, shop)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	categories := []string{}
	for _, item := range items {
		for _, category := range item.Categories {
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *service) Totals(ctx context.Context, shop string) (*Totals, error) {
	items, err := s.load(ctx, shop)
	if err != nil {
		return nil, err
	}
	totals := &Totals{Items: len(items), TotalValue: decimal.Zero}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.TotalValue = totals.TotalValue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return totals, nil
}

func (s *service) load(ctx context.Context, shop string) ([]Item, error) {
	if !s.shops.Exists(ctx, shop) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	items, err := s.repo.Load(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "load inventory")
	}
	return items, nil
}

func validateItem(input ItemInput) (*Item, error) {
	name := strings.TrimSpace(input.Name)

	var issues error
	if name == "" {
		issues = multierr.Append(issues, fmt.Errorf("name is required"))
	}
	categories := make([]string, 0, len(input.Categories))
	for _, raw := range input.Categories {
		category := strings.TrimSpace(raw)
		if category != "" {
			categories = append(categories, category)
		}
	}
	if len(categories) == 0 {
		issues = multierr.Append(issues, fmt.Errorf("at least one category is required"))
	}
	if input.Quantity < 0 {
		issues = multierr.Append(issues, fmt.Errorf("quantity must not be negative"))
	}
	if input.Price.IsNegative() {
		issues = multierr.Append(issues, fmt.Errorf("price must not be negative"))
	}
	if issues != nil {
		details := []string{}
		for _, issue := range multierr.Errors(issues) {
			details = append(details, issue.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item").WithDetails(details)
	}

	return &Item{
		Name:       name,
		Categories: categories,
		Quantity:   input.Quantity,
		Price:      input.Price,
	}, nil
}

func indexByName(items []Item, name string) int {
	for i, item := range items {
		if strings.EqualFold(item.Name, name) {
			return i
		}
	}
	return -1
}

func hasCategory(item Item, category string) bool {
	for _, c := range item.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}
