package order

import (
	"izakaya-order/internal/catalog"
	"izakaya-order/internal/models"
)

// MenuView is the menu a table sees: only what it may add right now, grouped for display
type MenuView struct {
	TableID      string           `json:"table_id"`
	Mode         models.TableMode `json:"mode"`
	FoodAccepted bool             `json:"food_accepted"`
	Sections     []MenuSection    `json:"sections"`
}

type MenuSection struct {
	Category models.Category `json:"category"`
	Groups   []MenuGroup     `json:"groups"`
}

type MenuGroup struct {
	Key   string         `json:"key"`
	Label string         `json:"label"`
	Items []MenuItemView `json:"items"`
}

// MenuItemView tells the client which add-to-cart dialog an item needs
type MenuItemView struct {
	models.MenuItem
	Customization string   `json:"customization,omitempty"`
	ServingStyles []string `json:"serving_styles,omitempty"`
	DefaultStyle  string   `json:"default_style,omitempty"`
}

const otherGroupKey = "other"

func buildMenu(rules catalog.Rules, items []models.MenuItem) []MenuSection {
	sections := make([]MenuSection, 0, len(models.Categories))

	for _, category := range models.Categories {
		var groups []MenuGroup
		index := make(map[string]int)

		for _, item := range items {
			if item.Category != category {
				continue
			}
			view := itemView(rules, item)
			for _, g := range groupsOf(rules, item) {
				i, ok := index[g.Key]
				if !ok {
					i = len(groups)
					index[g.Key] = i
					groups = append(groups, MenuGroup{Key: g.Key, Label: g.Label})
				}
				groups[i].Items = append(groups[i].Items, view)
			}
		}

		if len(groups) > 0 {
			sections = append(sections, MenuSection{Category: category, Groups: orderGroups(rules, category, groups)})
		}
	}
	return sections
}

// groupsOf lists the groups an item is shown under. Drinks appear under every
// matching drink group, or under その他 when none matches.
func groupsOf(rules catalog.Rules, item models.MenuItem) []MenuGroup {
	switch {
	case item.Category.IsDrink():
		matched := rules.DrinkGroupsFor(item)
		if len(matched) == 0 {
			return []MenuGroup{{Key: otherGroupKey, Label: string(models.SubcategoryOther)}}
		}
		out := make([]MenuGroup, 0, len(matched))
		for _, g := range matched {
			out = append(out, MenuGroup{Key: g.Key, Label: g.Label})
		}
		return out
	case item.Category == models.CategoryFood:
		sub := item.SubCategory
		if sub == "" {
			sub = models.SubcategoryOther
		}
		return []MenuGroup{{Key: string(sub), Label: string(sub)}}
	default:
		return []MenuGroup{{Key: string(item.Category), Label: string(item.Category)}}
	}
}

// orderGroups sorts groups into the house display order: drink groups as listed in the
// rules, food by sub-category, anything unmatched last
func orderGroups(rules catalog.Rules, category models.Category, groups []MenuGroup) []MenuGroup {
	var order []string
	switch {
	case category.IsDrink():
		for _, g := range rules.DrinkGroups {
			order = append(order, g.Key)
		}
		order = append(order, otherGroupKey)
	case category == models.CategoryFood:
		for _, sub := range models.FoodSubcategories {
			order = append(order, string(sub))
		}
	default:
		return groups
	}

	byKey := make(map[string]MenuGroup, len(groups))
	for _, g := range groups {
		byKey[g.Key] = g
	}
	out := make([]MenuGroup, 0, len(groups))
	for _, key := range order {
		if g, ok := byKey[key]; ok {
			out = append(out, g)
			delete(byKey, key)
		}
	}
	for _, g := range groups {
		if _, left := byKey[g.Key]; left {
			out = append(out, g)
		}
	}
	return out
}

func itemView(rules catalog.Rules, item models.MenuItem) MenuItemView {
	view := MenuItemView{MenuItem: item}
	switch rules.Customization(item) {
	case catalog.CustomizationServingStyle:
		view.Customization = "serving_style"
		view.ServingStyles = catalog.ServingStyles
		view.DefaultStyle = catalog.DefaultServingStyle
	case catalog.CustomizationGlassCount:
		view.Customization = "glass_count"
	}
	return view
}
