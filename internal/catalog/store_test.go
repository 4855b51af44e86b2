package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"izakaya-order/internal/models"
)

func newTestStore() *Store {
	return NewStore(DefaultRules(), []models.MenuItem{
		{ID: "beer", Name: "生ビール", Price: 600, Category: models.CategoryAlcohol},
		{ID: "edamame", Name: "枝豆", Price: 400, Category: models.CategoryFood, SubCategory: models.SubcategoryAppetizer},
	})
}

func TestStore_AddAssignsIdentity(t *testing.T) {
	s := newTestStore()

	item, ok := s.Add(models.MenuItemDraft{
		Name:     "  だし巻き玉子 ",
		Price:    550,
		Category: models.CategoryFood,
	})
	require.True(t, ok)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "だし巻き玉子", item.Name)
	assert.False(t, item.SoldOut)
	assert.Equal(t, models.SubcategoryOther, item.SubCategory)

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, item.ID, list[0].ID, "new items go to the top of the menu")
}

func TestStore_AddRejectsInvalidDraft(t *testing.T) {
	tests := []struct {
		name  string
		draft models.MenuItemDraft
	}{
		{"blank name", models.MenuItemDraft{Name: " ", Price: 100, Category: models.CategoryFood}},
		{"negative price", models.MenuItemDraft{Name: "x", Price: -1, Category: models.CategoryFood}},
		{"unknown category", models.MenuItemDraft{Name: "x", Price: 1, Category: "dessert"}},
		{"unknown subcategory", models.MenuItemDraft{Name: "x", Price: 1, Category: models.CategoryFood, SubCategory: "soup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			_, ok := s.Add(tt.draft)
			assert.False(t, ok)
			assert.Len(t, s.List(), 2)
		})
	}
}

func TestStore_Update(t *testing.T) {
	s := newTestStore()
	price := 650
	desc := "キンキンに冷えた一杯"

	ok := s.Update("beer", models.MenuItemPatch{Price: &price, Description: &desc})
	require.True(t, ok)

	item, found := s.Get("beer")
	require.True(t, found)
	assert.Equal(t, 650, item.Price)
	assert.Equal(t, desc, item.Description)
	assert.Equal(t, "生ビール", item.Name)
}

func TestStore_UpdateUnknownOrInvalid(t *testing.T) {
	s := newTestStore()
	before := s.List()

	price := 100
	assert.False(t, s.Update("missing", models.MenuItemPatch{Price: &price}))

	negative := -5
	assert.False(t, s.Update("beer", models.MenuItemPatch{Price: &negative}))

	blank := ""
	assert.False(t, s.Update("beer", models.MenuItemPatch{Name: &blank}))

	assert.Equal(t, before, s.List())
}

func TestStore_DeleteIsHardRemoval(t *testing.T) {
	s := newTestStore()

	assert.True(t, s.Delete("beer"))
	_, found := s.Get("beer")
	assert.False(t, found)
	assert.Len(t, s.List(), 1)

	assert.False(t, s.Delete("beer"))
}

func TestStore_ToggleSoldOut(t *testing.T) {
	s := newTestStore()

	item, ok := s.ToggleSoldOut("beer")
	require.True(t, ok)
	assert.True(t, item.SoldOut)

	item, ok = s.ToggleSoldOut("beer")
	require.True(t, ok)
	assert.False(t, item.SoldOut)

	_, ok = s.ToggleSoldOut("missing")
	assert.False(t, ok)
}

func TestStore_ReplaceIsWholesale(t *testing.T) {
	s := newTestStore()
	s.Replace([]models.MenuItem{{ID: "only", Name: "ハイボール", Price: 500, Category: models.CategoryAlcohol}})

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "only", list[0].ID)
}

func TestStore_Addable(t *testing.T) {
	s := newTestStore()
	s.ToggleSoldOut("edamame")

	items := s.Addable(models.ModeALaCarte, true)
	require.Len(t, items, 1)
	assert.Equal(t, "beer", items[0].ID)

	s.ToggleSoldOut("edamame")
	assert.Len(t, s.Addable(models.ModeALaCarte, true), 2)
	assert.Len(t, s.Addable(models.ModeALaCarte, false), 1)
	assert.Len(t, s.Addable(models.ModeDrinkPlan, true), 1)
}

func TestStore_SnapshotEncodesCatalogOrder(t *testing.T) {
	s := newTestStore()

	data, err := s.Snapshot()
	require.NoError(t, err)

	var items []models.MenuItem
	require.NoError(t, json.Unmarshal(data, &items))
	assert.Equal(t, s.List(), items)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"800", 800, true},
		{" 0 ", 0, true},
		{"abc", 0, false},
		{"-10", 0, false},
		{"", 0, false},
		{"12.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParsePrice(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
