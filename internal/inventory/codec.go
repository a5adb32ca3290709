package inventory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// fileItem is the on-disk shape of one inventory entry. The legacy
// Category field only appears in documents written before categories
// became a list; migrations normalize it away before decoding finishes.
type fileItem struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Category   string   `json:"category,omitempty"`
	Quantity   int      `json:"quantity"`
	Price      float64  `json:"price"`
}

// migrations run in order over every decoded entry. Each one upgrades a
// retired schema detail in place.
var migrations = []func(*fileItem){
	migrateCategoryToCategories,
}

func migrateCategoryToCategories(it *fileItem) {
	if it.Category != "" && len(it.Categories) == 0 {
		it.Categories = []string{it.Category}
	}
	it.Category = ""
}

func decodeItems(data []byte) ([]Item, error) {
	var docs []fileItem
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode inventory document: %w", err)
	}
	items := make([]Item, 0, len(docs))
	for i := range docs {
		for _, migrate := range migrations {
			migrate(&docs[i])
		}
		categories := docs[i].Categories
		if categories == nil {
			categories = []string{}
		}
		items = append(items, Item{
			Name:       docs[i].Name,
			Categories: categories,
			Quantity:   docs[i].Quantity,
			Price:      decimal.NewFromFloat(docs[i].Price),
		})
	}
	return items, nil
}

func encodeItems(items []Item) ([]byte, error) {
	docs := make([]fileItem, 0, len(items))
	for _, item := range items {
		categories := item.Categories
		if categories == nil {
			categories = []string{}
		}
		price, _ := item.Price.Float64()
		docs = append(docs, fileItem{
			Name:       item.Name,
			Categories: categories,
			Quantity:   item.Quantity,
			Price:      price,
		})
	}
	data, err := json.MarshalIndent(docs, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode inventory document: %w", err)
	}
	return data, nil
}
