package shops

import (
	"context"
	"errors"
	"os"
	"testing"

	pkgerrors "github.com/shopkeeperhq/shopkeeper-backend/pkg/errors"
)

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	repo := newStubShopRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	record, err := svc.Create(context.Background(), ShopInput{
		ShopName:      " Corner Store ",
		OwnerName:     "Amina Khan",
		Address:       "12 Canal Road",
		MobileNumbers: []string{"03001234567", ""},
	})
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	if record.ShopName != "Corner Store" {
		t.Fatalf("expected trimmed shop name, got %q", record.ShopName)
	}
	if len(record.MobileNumbers) != 1 {
		t.Fatalf("expected blank numbers dropped, got %v", record.MobileNumbers)
	}
	if repo.saved["Corner Store"] == nil {
		t.Fatal("expected record persisted under folder name")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := mustService(t, newStubShopRepo())

	cases := []ShopInput{
		{ShopName: "", OwnerName: "o", Address: "a"},
		{ShopName: "s", OwnerName: "", Address: "a"},
		{ShopName: "s", OwnerName: "o", Address: ""},
		{ShopName: "s", OwnerName: "o", Address: "a", MobileNumbers: []string{"12345"}},
		{ShopName: "s", OwnerName: "o", Address: "a", MobileNumbers: []string{"0300123456a"}},
		{ShopName: "s", OwnerName: "o", Address: "a", MobileNumbers: []string{"03001234567", "03001234568", "03001234569", "03001234560"}},
		{ShopName: "../escape", OwnerName: "o", Address: "a"},
	}
	for i, input := range cases {
		_, err := svc.Create(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestServiceCreateAllowsZeroNumbers(t *testing.T) {
	svc := mustService(t, newStubShopRepo())
	record, err := svc.Create(context.Background(), ShopInput{ShopName: "s", OwnerName: "o", Address: "a"})
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	if len(record.MobileNumbers) != 0 {
		t.Fatalf("expected no numbers, got %v", record.MobileNumbers)
	}
}

func TestServiceCreateDuplicate(t *testing.T) {
	repo := newStubShopRepo()
	repo.saved["Corner Store"] = &ShopRecord{ShopName: "Corner Store"}
	svc := mustService(t, repo)

	_, err := svc.Create(context.Background(), ShopInput{ShopName: "Corner Store", OwnerName: "o", Address: "a"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceGetNotFound(t *testing.T) {
	svc := mustService(t, newStubShopRepo())
	_, err := svc.Get(context.Background(), "nowhere")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceUpdateRenameMovesFolder(t *testing.T) {
	repo := newStubShopRepo()
	repo.saved["Old Name"] = &ShopRecord{ShopName: "Old Name", OwnerName: "o", Address: "a"}
	svc := mustService(t, repo)

	record, err := svc.Update(context.Background(), "Old Name", ShopInput{
		ShopName: "New Name", OwnerName: "o", Address: "a",
	})
	if err != nil {
		t.Fatalf("update shop: %v", err)
	}
	if record.ShopName != "New Name" {
		t.Fatalf("unexpected name %q", record.ShopName)
	}
	if repo.renamedFrom != "Old Name" || repo.renamedTo != "New Name" {
		t.Fatalf("expected folder rename, got %q -> %q", repo.renamedFrom, repo.renamedTo)
	}
	if repo.saved["New Name"] == nil {
		t.Fatal("expected record saved under new folder")
	}
}

func TestServiceUpdateRenameConflict(t *testing.T) {
	repo := newStubShopRepo()
	repo.saved["Old Name"] = &ShopRecord{ShopName: "Old Name"}
	repo.saved["Taken"] = &ShopRecord{ShopName: "Taken"}
	svc := mustService(t, repo)

	_, err := svc.Update(context.Background(), "Old Name", ShopInput{ShopName: "Taken", OwnerName: "o", Address: "a"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	repo := newStubShopRepo()
	repo.saved["Corner Store"] = &ShopRecord{ShopName: "Corner Store"}
	svc := mustService(t, repo)

	if err := svc.Delete(context.Background(), "Corner Store"); err != nil {
		t.Fatalf("delete shop: %v", err)
	}
	if repo.deleted != "Corner Store" {
		t.Fatalf("expected folder deleted, got %q", repo.deleted)
	}

	err := svc.Delete(context.Background(), "Corner Store")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestServiceSaveFailureIsIOError(t *testing.T) {
	repo := newStubShopRepo()
	repo.saveErr = errors.New("disk full")
	svc := mustService(t, repo)

	_, err := svc.Create(context.Background(), ShopInput{ShopName: "s", OwnerName: "o", Address: "a"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeIO {
		t.Fatalf("expected io error, got %v", err)
	}
}

func mustService(t *testing.T, repo shopRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

type stubShopRepo struct {
	saved       map[string]*ShopRecord
	saveErr     error
	renamedFrom string
	renamedTo   string
	deleted     string
}

func newStubShopRepo() *stubShopRepo {
	return &stubShopRepo{saved: map[string]*ShopRecord{}}
}

func (s *stubShopRepo) Exists(ctx context.Context, folder string) bool {
	_, ok := s.saved[folder]
	return ok
}

func (s *stubShopRepo) Load(ctx context.Context, folder string) (*ShopRecord, error) {
	record, ok := s.saved[folder]
	if !ok {
		return nil, os.ErrNotExist
	}
	return record, nil
}

func (s *stubShopRepo) Save(ctx context.Context, folder string, record *ShopRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[folder] = record
	return nil
}

func (s *stubShopRepo) List(ctx context.Context) ([]*ShopRecord, error) {
	records := make([]*ShopRecord, 0, len(s.saved))
	for _, record := range s.saved {
		records = append(records, record)
	}
	return records, nil
}

func (s *stubShopRepo) Rename(ctx context.Context, oldFolder, newFolder string) error {
	record := s.saved[oldFolder]
	delete(s.saved, oldFolder)
	s.saved[newFolder] = record
	s.renamedFrom = oldFolder
	s.renamedTo = newFolder
	return nil
}

func (s *stubShopRepo) Delete(ctx context.Context, folder string) error {
	delete(s.saved, folder)
	s.deleted = folder
	return nil
}
