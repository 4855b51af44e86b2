package catalog

import "izakaya-order/internal/models"

// SeedItems is the menu used when persistence holds no catalog yet
func SeedItems() []models.MenuItem {
	return []models.MenuItem{
		{ID: "prod-beer-draft", Name: "生ビール", Price: 600, Category: models.CategoryAlcohol, ImageURL: "https://picsum.photos/400/300?random=1"},
		{ID: "prod-beer-bottle", Name: "瓶ビール", Price: 700, Category: models.CategoryAlcohol, ImageURL: "https://picsum.photos/400/300?random=2"},
		{ID: "prod-highball", Name: "角ハイボール", Price: 500, Category: models.CategoryAlcohol, ImageURL: "https://picsum.photos/400/300?random=3"},
		{ID: "prod-shochu-umi", Name: "芋焼酎 海", Price: 550, Category: models.CategoryAlcohol, ImageURL: "https://picsum.photos/400/300?random=4"},
		{ID: "prod-sake", Name: "龍力 特別純米", Price: 800, Category: models.CategoryAlcohol, ImageURL: "https://picsum.photos/400/300?random=5"},
		{ID: "prod-oolong", Name: "ウーロン茶", Price: 350, Category: models.CategorySoftDrink, ImageURL: "https://picsum.photos/400/300?random=6"},
		{ID: "prod-edamame", Name: "枝豆", Price: 400, Category: models.CategoryFood, SubCategory: models.SubcategoryAppetizer, ImageURL: "https://picsum.photos/400/300?random=7"},
		{ID: "prod-karaage", Name: "鶏の唐揚げ", Price: 680, Category: models.CategoryFood, SubCategory: models.SubcategoryMain, ImageURL: "https://picsum.photos/400/300?random=8"},
		{ID: "prod-potato-salad", Name: "ポテトサラダ", Price: 450, Category: models.CategoryFood, SubCategory: models.SubcategorySalad, ImageURL: "https://picsum.photos/400/300?random=9"},
	}
}
