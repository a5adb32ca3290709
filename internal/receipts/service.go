package receipts

import (
	"context"
	"fmt"

	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
)

type receiptLister interface {
	List(ctx context.Context, shop string) ([]Receipt, error)
}

type shopChecker interface {
	Exists(ctx context.Context, folder string) bool
}

// Service exposes receipt retrieval.
type Service interface {
	List(ctx context.Context, shop string) ([]Receipt, error)
}

type service struct {
	store receiptLister
	shops shopChecker
}

func NewService(store receiptLister, shops shopChecker) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("receipt store required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop checker required")
	}
	return &service{store: store, shops: shops}, nil
}

func (s *service) List(ctx context.Context, shop string) ([]Receipt, error) {
	if !s.shops.Exists(ctx, shop) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	receipts, err := s.store.List(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "list receipts")
	}
	return receipts, nil
}
