package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestGroupItemsByCategory(t *testing.T) {
	items := []MenuItem{
		{ID: 1, CategoryID: 10},
		{ID: 2, CategoryID: 20},
		{ID: 3, CategoryID: 10},
		{ID: 4, CategoryID: 30},
		{ID: 5, CategoryID: 20},
	}

	groups := GroupItemsByCategory(items)

	want := map[int64][]int64{10: {1, 3}, 20: {2, 5}, 30: {4}}
	order := []int64{10, 20, 30}

	if len(groups) != len(order) {
		t.Fatalf("GroupItemsByCategory() returned %d groups, want %d", len(groups), len(order))
	}
	for i, g := range groups {
		if g.CategoryID != order[i] {
			t.Errorf("group %d category = %d, want %d", i, g.CategoryID, order[i])
		}
		ids := make([]int64, 0, len(g.Items))
		for _, item := range g.Items {
			ids = append(ids, item.ID)
		}
		if len(ids) != len(want[g.CategoryID]) {
			t.Fatalf("category %d items = %v, want %v", g.CategoryID, ids, want[g.CategoryID])
		}
		for j := range ids {
			if ids[j] != want[g.CategoryID][j] {
				t.Errorf("category %d items = %v, want %v", g.CategoryID, ids, want[g.CategoryID])
			}
		}
	}
}

func TestGroupItemsByCategory_Idempotent(t *testing.T) {
	items := []MenuItem{
		{ID: 1, CategoryID: 2},
		{ID: 2, CategoryID: 1},
		{ID: 3, CategoryID: 2},
	}

	first := GroupItemsByCategory(items)

	flattened := make([]MenuItem, 0, len(items))
	for _, g := range first {
		flattened = append(flattened, g.Items...)
	}
	second := GroupItemsByCategory(flattened)

	if len(first) != len(second) {
		t.Fatalf("regrouping changed group count: %d != %d", len(first), len(second))
	}
	for i := range first {
		if first[i].CategoryID != second[i].CategoryID || len(first[i].Items) != len(second[i].Items) {
			t.Errorf("group %d differs after regrouping", i)
		}
	}
}

func TestGroupItemsByCategory_Empty(t *testing.T) {
	groups := GroupItemsByCategory(nil)
	if groups == nil || len(groups) != 0 {
		t.Errorf("GroupItemsByCategory(nil) = %v, want empty slice", groups)
	}
}

func TestMenuItemPriceMarshalsAsNumber(t *testing.T) {
	item := MenuItem{Name: "Latte", Price: decimal.RequireFromString("45.00")}

	body, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(body), `"price":45`) {
		t.Errorf("json.Marshal() = %s, want numeric price", body)
	}
	if decimal.MarshalJSONWithoutQuotes {
		t.Errorf("decimal.MarshalJSONWithoutQuotes was switched on globally")
	}
	if strings.Contains(string(body), "image_path") || strings.Contains(string(body), "imagePath") {
		t.Errorf("json.Marshal() = %s, image path must not be serialized", body)
	}
}

func TestMenuItemJSONKeepsFields(t *testing.T) {
	image := "https://cdn.test/menus/1/latte.png"
	items := []MenuItem{{ID: 3, Name: "Latte", Price: decimal.RequireFromString("12.50"), ImageURL: &image, MenuID: 1, CategoryID: 2}}

	body, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	got := decoded[0]
	if got["price"] != 12.5 || got["id"] != float64(3) || got["categoryId"] != float64(2) || got["imageUrl"] != image {
		t.Errorf("json.Marshal() = %s", body)
	}
	if _, ok := got["Price"]; ok {
		t.Errorf("json.Marshal() = %s, duplicate price field", body)
	}
}
