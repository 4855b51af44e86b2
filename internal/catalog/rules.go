package catalog

import (
	"strings"

	"izakaya-order/internal/models"
)

// CustomizationKind tells the cart which customization flow an item needs
type CustomizationKind int

const (
	// CustomizationNone items are added without customization
	CustomizationNone CustomizationKind = iota
	// CustomizationServingStyle items need exactly one serving style before admission
	CustomizationServingStyle
	// CustomizationGlassCount items accept a glass count that does not affect price
	CustomizationGlassCount
)

const (
	ServingStyleLabel   = "割り方"
	GlassCountLabel     = "グラス"
	DefaultServingStyle = "ソーダ割り"
)

// ServingStyles are the accepted serving-style choices
var ServingStyles = []string{"ソーダ割り", "水割り", "お湯割り", "ウーロン割り", "ロック", "ストレート"}

// DrinkGroup is a display grouping for drinks matched by name and category
type DrinkGroup struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Category models.Category `json:"-"`
	Keywords []string        `json:"-"`
}

// Matches reports whether item belongs to the group. A group without keywords
// matches every item of its category.
func (g DrinkGroup) Matches(item models.MenuItem) bool {
	if item.Category != g.Category {
		return false
	}
	if len(g.Keywords) == 0 {
		return true
	}
	return containsAny(item.Name, g.Keywords)
}

// Rules holds the name/category matching rules the cart consults for customizations
type Rules struct {
	ServingStyleKeywords []string
	GlassCountKeywords   []string
	DrinkGroups          []DrinkGroup
}

// DefaultRules returns the rules for the house drink list
func DefaultRules() Rules {
	return Rules{
		ServingStyleKeywords: []string{"海", "蔵の師魂", "つくし"},
		GlassCountKeywords:   []string{"瓶ビール"},
		DrinkGroups: []DrinkGroup{
			{Key: "beer", Label: "ビール", Category: models.CategoryAlcohol, Keywords: []string{"ビール"}},
			{Key: "highball", Label: "ハイボール", Category: models.CategoryAlcohol, Keywords: []string{"ハイボール"}},
			{Key: "wine", Label: "ワイン", Category: models.CategoryAlcohol, Keywords: []string{"ワイン", "利きワイン"}},
			{Key: "sparkling", Label: "スパークリングワイン", Category: models.CategoryAlcohol, Keywords: []string{"スマイルヌブリナ"}},
			{Key: "sangria", Label: "サングリア", Category: models.CategoryAlcohol, Keywords: []string{"サングリア"}},
			{Key: "sour", Label: "サワー", Category: models.CategoryAlcohol, Keywords: []string{"サワー"}},
			{Key: "shochu", Label: "焼酎", Category: models.CategoryAlcohol, Keywords: []string{"海", "蔵の師魂", "つくし"}},
			{Key: "sake", Label: "日本酒", Category: models.CategoryAlcohol, Keywords: []string{"龍力"}},
			{Key: "cocktail", Label: "カクテル", Category: models.CategoryAlcohol, Keywords: []string{"カシス", "ライチ"}},
			{Key: "liqueur", Label: "リキュール", Category: models.CategoryAlcohol, Keywords: []string{"梅酒", "お酒"}},
			{Key: "soft", Label: "ソフトドリンク", Category: models.CategorySoftDrink},
		},
	}
}

// Customization returns the customization flow required for item
func (r Rules) Customization(item models.MenuItem) CustomizationKind {
	if item.Category != models.CategoryAlcohol {
		return CustomizationNone
	}
	if containsAny(item.Name, r.ServingStyleKeywords) {
		return CustomizationServingStyle
	}
	if containsAny(item.Name, r.GlassCountKeywords) {
		return CustomizationGlassCount
	}
	return CustomizationNone
}

// DrinkGroupsFor returns every group matching item, in display order. An item whose
// name hits several groups' keywords is listed under each of them.
func (r Rules) DrinkGroupsFor(item models.MenuItem) []DrinkGroup {
	var out []DrinkGroup
	for _, g := range r.DrinkGroups {
		if g.Matches(item) {
			out = append(out, g)
		}
	}
	return out
}

// IsServingStyle reports whether choice is an accepted serving style
func IsServingStyle(choice string) bool {
	for _, s := range ServingStyles {
		if s == choice {
			return true
		}
	}
	return false
}

func containsAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}
