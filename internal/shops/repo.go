package shops

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/storage"
)

const infoFileName = "shop_info.json"

// ValidFolder reports whether a shop folder name stays inside the data
// root when joined to it. Every path the repository builds goes through
// this check, so inventory, cart, checkout and receipt lookups keyed on
// a shop name cannot reach outside the root.
func ValidFolder(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// Repository persists one shop_info.json per shop folder under the data root.
type Repository struct {
	root string
}

// NewRepository builds a file-backed shop repository rooted at the data dir.
func NewRepository(root string) *Repository {
	return &Repository{root: root}
}

// Dir returns the absolute folder for a shop.
func (r *Repository) Dir(folder string) string {
	return filepath.Join(r.root, folder)
}

func (r *Repository) infoPath(folder string) string {
	return filepath.Join(r.root, folder, infoFileName)
}

// Exists reports whether the shop folder holds a shop record.
func (r *Repository) Exists(ctx context.Context, folder string) bool {
	if !ValidFolder(folder) {
		return false
	}
	_, err := os.Stat(r.infoPath(folder))
	return err == nil
}

// Load reads the shop record for the folder. os.ErrNotExist surfaces
// unwrapped so callers can map it to not-found.
func (r *Repository) Load(ctx context.Context, folder string) (*ShopRecord, error) {
	if !ValidFolder(folder) {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(r.infoPath(folder))
	if err != nil {
		return nil, err
	}
	var record ShopRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", infoFileName, err)
	}
	if record.MobileNumbers == nil {
		record.MobileNumbers = []string{}
	}
	return &record, nil
}

// Save writes the shop record, creating the folder when absent.
func (r *Repository) Save(ctx context.Context, folder string, record *ShopRecord) error {
	if !ValidFolder(folder) {
		return fmt.Errorf("invalid shop folder %q", folder)
	}
	dir := r.Dir(folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create shop folder: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", infoFileName, err)
	}
	return storage.WriteFileAtomic(filepath.Join(dir, infoFileName), data, 0o644)
}

// List scans the data root for folders holding a shop record. Folders whose
// record cannot be parsed are skipped, matching the tolerant listing the
// tool has always done.
func (r *Repository) List(ctx context.Context) ([]*ShopRecord, error) {
	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("read data root: %w", err)
	}
	records := make([]*ShopRecord, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		record, err := r.Load(ctx, entry.Name())
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Rename moves the shop folder, carrying inventory and bills with it.
func (r *Repository) Rename(ctx context.Context, oldFolder, newFolder string) error {
	if !ValidFolder(oldFolder) || !ValidFolder(newFolder) {
		return fmt.Errorf("invalid shop folder in rename %q -> %q", oldFolder, newFolder)
	}
	return os.Rename(r.Dir(oldFolder), r.Dir(newFolder))
}

// Delete removes the shop folder and everything beneath it.
func (r *Repository) Delete(ctx context.Context, folder string) error {
	if !ValidFolder(folder) {
		return fmt.Errorf("invalid shop folder %q", folder)
	}
	return os.RemoveAll(r.Dir(folder))
}
