package shops

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
)

const maxMobileNumbers = 3

var mobileNumberRe = regexp.MustCompile(`^[0-9]{11}$`)

type shopRepository interface {
	Exists(ctx context.Context, folder string) bool
	Load(ctx context.Context, folder string) (*ShopRecord, error)
	Save(ctx context.Context, folder string, record *ShopRecord) error
	List(ctx context.Context) ([]*ShopRecord, error)
	Rename(ctx context.Context, oldFolder, newFolder string) error
	Delete(ctx context.Context, folder string) error
}

// Service exposes shop record operations.
type Service interface {
	Create(ctx context.Context, input ShopInput) (*ShopRecord, error)
	Get(ctx context.Context, shop string) (*ShopRecord, error)
	List(ctx context.Context) ([]*ShopRecord, error)
	Update(ctx context.Context, shop string, input ShopInput) (*ShopRecord, error)
	Delete(ctx context.Context, shop string) error
}

type service struct {
	repo shopRepository
}

// NewService builds a shop service backed by the folder repository.
func NewService(repo shopRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repo}, nil
}

// ShopInput captures the fields of a shop record mutation.
type ShopInput struct {
	ShopName      string
	OwnerName     string
	Address       string
	MobileNumbers []string
}

func (s *service) Create(ctx context.Context, input ShopInput) (*ShopRecord, error) {
	record, err := validateInput(input)
	if err != nil {
		return nil, err
	}
	if s.repo.Exists(ctx, record.ShopName) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a shop with this name already exists")
	}
	if err := s.repo.Save(ctx, record.ShopName, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "save shop record")
	}
	return record, nil
}

func (s *service) Get(ctx context.Context, shop string) (*ShopRecord, error) {
	folder, err := validateFolder(shop)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Load(ctx, folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "load shop record")
	}
	return record, nil
}

func (s *service) List(ctx context.Context) ([]*ShopRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "list shops")
	}
	return records, nil
}

// Update rewrites the shop record; when the name changes, the folder moves
// with it so inventory and bills stay attached to the shop.
func (s *service) Update(ctx context.Context, shop string, input ShopInput) (*ShopRecord, error) {
	folder, err := validateFolder(shop)
	if err != nil {
		return nil, err
	}
	record, err := validateInput(input)
	if err != nil {
		return nil, err
	}
	if !s.repo.Exists(ctx, folder) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}

	if record.ShopName != folder {
		if s.repo.Exists(ctx, record.ShopName) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a shop with this name already exists")
		}
		if err := s.repo.Rename(ctx, folder, record.ShopName); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "rename shop folder")
		}
	}

	if err := s.repo.Save(ctx, record.ShopName, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeIO, err, "save shop record")
	}
	return record, nil
}

func (s *service) Delete(ctx context.Context, shop string) error {
	folder, err := validateFolder(shop)
	if err != nil {
		return err
	}
	if !s.repo.Exists(ctx, folder) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	if err := s.repo.Delete(ctx, folder); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeIO, err, "delete shop folder")
	}
	return nil
}

func validateInput(input ShopInput) (*ShopRecord, error) {
	name := strings.TrimSpace(input.ShopName)
	owner := strings.TrimSpace(input.OwnerName)
	address := strings.TrimSpace(input.Address)

	if name == "" || owner == "" || address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name, owner name and address must be filled")
	}
	if _, err := validateFolder(name); err != nil {
		return nil, err
	}

	numbers := make([]string, 0, len(input.MobileNumbers))
	for _, raw := range input.MobileNumbers {
		number := strings.TrimSpace(raw)
		if number == "" {
			continue
		}
		if !mobileNumberRe.MatchString(number) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("phone number %q must be exactly 11 digits", number))
		}
		numbers = append(numbers, number)
	}
	if len(numbers) > maxMobileNumbers {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at most 3 mobile numbers are allowed")
	}

	return &ShopRecord{
		ShopName:      name,
		OwnerName:     owner,
		Address:       address,
		MobileNumbers: numbers,
	}, nil
}

// validateFolder rejects names that would escape the data root.
func validateFolder(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if !ValidFolder(trimmed) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "shop name contains invalid characters")
	}
	return trimmed, nil
}
