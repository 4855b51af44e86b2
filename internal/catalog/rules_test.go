package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"izakaya-order/internal/models"
)

func TestRules_Customization(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name string
		item models.MenuItem
		want CustomizationKind
	}{
		{"shochu", models.MenuItem{Name: "芋焼酎 海", Category: models.CategoryAlcohol}, CustomizationServingStyle},
		{"shochu kura", models.MenuItem{Name: "蔵の師魂", Category: models.CategoryAlcohol}, CustomizationServingStyle},
		{"bottled beer", models.MenuItem{Name: "瓶ビール", Category: models.CategoryAlcohol}, CustomizationGlassCount},
		{"draft beer", models.MenuItem{Name: "生ビール", Category: models.CategoryAlcohol}, CustomizationNone},
		{"food named like shochu", models.MenuItem{Name: "海鮮サラダ", Category: models.CategoryFood}, CustomizationNone},
		{"soft drink", models.MenuItem{Name: "ウーロン茶", Category: models.CategorySoftDrink}, CustomizationNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Customization(tt.item))
		})
	}
}

func TestRules_DrinkGroupsFor(t *testing.T) {
	rules := DefaultRules()

	keys := func(groups []DrinkGroup) []string {
		var out []string
		for _, g := range groups {
			out = append(out, g.Key)
		}
		return out
	}

	assert.Equal(t, []string{"highball"}, keys(rules.DrinkGroupsFor(models.MenuItem{Name: "角ハイボール", Category: models.CategoryAlcohol})))
	assert.Equal(t, []string{"soft"}, keys(rules.DrinkGroupsFor(models.MenuItem{Name: "ジンジャーエール", Category: models.CategorySoftDrink})))
	assert.Equal(t, []string{"beer", "cocktail"}, keys(rules.DrinkGroupsFor(models.MenuItem{Name: "カシスビール", Category: models.CategoryAlcohol})),
		"an item matching several groups is listed under each")
	assert.Empty(t, rules.DrinkGroupsFor(models.MenuItem{Name: "枝豆", Category: models.CategoryFood}))
}

func TestIsServingStyle(t *testing.T) {
	assert.True(t, IsServingStyle("ロック"))
	assert.False(t, IsServingStyle("コーラ割り"))
}
