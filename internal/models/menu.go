package models

// Category is the fixed menu section an item belongs to
type Category string

const (
	CategoryAlcohol   Category = "アルコール"
	CategorySoftDrink Category = "ソフトドリンク"
	CategoryFood      Category = "フード"
	CategoryRecommend Category = "本日のおすすめ"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryAlcohol, CategorySoftDrink, CategoryFood, CategoryRecommend}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsDrink reports whether c is one of the drink categories
func (c Category) IsDrink() bool {
	return c == CategoryAlcohol || c == CategorySoftDrink
}

// IsFood reports whether c is gated by the food-acceptance flag
func (c Category) IsFood() bool {
	return c == CategoryFood || c == CategoryRecommend
}

// FoodSubcategory groups food items on the menu
type FoodSubcategory string

const (
	SubcategoryAppetizer FoodSubcategory = "前菜"
	SubcategoryMain      FoodSubcategory = "メイン"
	SubcategorySide      FoodSubcategory = "一品"
	SubcategorySalad     FoodSubcategory = "サラダ"
	SubcategoryOther     FoodSubcategory = "その他"
)

var FoodSubcategories = []FoodSubcategory{
	SubcategoryAppetizer, SubcategoryMain, SubcategorySide, SubcategorySalad, SubcategoryOther,
}

func (s FoodSubcategory) Valid() bool {
	for _, known := range FoodSubcategories {
		if s == known {
			return true
		}
	}
	return false
}

// MenuItem is a sellable catalog entry. Price is in whole yen.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       int             `json:"price"`
	Category    Category        `json:"category"`
	SubCategory FoodSubcategory `json:"sub_category,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url"`
	SoldOut     bool            `json:"sold_out"`
	Special     bool            `json:"special,omitempty"`
}

// MenuItemDraft is a menu item before it is assigned an identity
type MenuItemDraft struct {
	Name        string          `json:"name"`
	Price       int             `json:"price"`
	Category    Category        `json:"category"`
	SubCategory FoodSubcategory `json:"sub_category,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url"`
	Special     bool            `json:"special,omitempty"`
}

// MenuItemPatch carries the mutable fields of a menu item; nil fields are left unchanged
type MenuItemPatch struct {
	Name        *string          `json:"name,omitempty"`
	Price       *int             `json:"price,omitempty"`
	Category    *Category        `json:"category,omitempty"`
	SubCategory *FoodSubcategory `json:"sub_category,omitempty"`
	Description *string          `json:"description,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	SoldOut     *bool            `json:"sold_out,omitempty"`
}
