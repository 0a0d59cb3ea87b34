package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImagePath   *string         `db:"image_path" json:"-"`
	ImageURL    *string         `db:"-" json:"imageUrl"`
	Volume      *string         `db:"volume" json:"volume"`
	Ingredients *string         `db:"ingredients" json:"ingredients"`
	MenuID      int64           `db:"menu_id" json:"menuId"`
	CategoryID  int64           `db:"category_id" json:"categoryId"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// MarshalJSON writes price as a JSON number. decimal.Decimal quotes itself
// unless the package-wide MarshalJSONWithoutQuotes switch is set.
func (i MenuItem) MarshalJSON() ([]byte, error) {
	type plain MenuItem
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{
		plain: plain(i),
		Price: json.Number(i.Price.String()),
	})
}

type CategoryGroup struct {
	CategoryID int64      `json:"categoryId"`
	Items      []MenuItem `json:"items"`
}

// GroupItemsByCategory buckets items by CategoryID. Groups appear in the
// order their first item appears and items keep their relative order, so
// grouping an already grouped and flattened list yields the same result.
func GroupItemsByCategory(items []MenuItem) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[int64]int)

	for _, item := range items {
		i, ok := index[item.CategoryID]
		if !ok {
			i = len(groups)
			index[item.CategoryID] = i
			groups = append(groups, CategoryGroup{CategoryID: item.CategoryID})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	return groups
}
