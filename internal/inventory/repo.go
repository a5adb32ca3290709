package inventory

import (
	"context"
	"os"
	"path/filepath"

	"github.com/shopkeeperhq/shopkeeper-backend/pkg/storage"
)

const inventoryFileName = "inventory.json"

// Repository persists one inventory.json per shop folder.
type Repository struct {
	root string
}

func NewRepository(root string) *Repository {
	return &Repository{root: root}
}

func (r *Repository) path(shop string) string {
	return filepath.Join(r.root, shop, inventoryFileName)
}

// Load reads the shop's inventory. A shop without an inventory file has
// an empty inventory, not an error.
func (r *Repository) Load(ctx context.Context, shop string) ([]Item, error) {
	data, err := os.ReadFile(r.path(shop))
	if err != nil {
		if os.IsNotExist(err) {
			return []Item{}, nil
		}
		return nil, err
	}
	return decodeItems(data)
}

// Save writes the full item list atomically, preserving order.
func (r *Repository) Save(ctx context.Context, shop string, items []Item) error {
	data, err := encodeItems(items)
	if err != nil {
		return err
	}
	return storage.WriteFileAtomic(r.path(shop), data, 0o644)
}
