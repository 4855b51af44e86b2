package models

// MenuItemRequest is the staff menu form. Price arrives as typed text.
type MenuItemRequest struct {
	Name        string          `json:"name"`
	Price       string          `json:"price"`
	Category    Category        `json:"category"`
	SubCategory FoodSubcategory `json:"sub_category,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// AddToCartRequest adds quantity of one item with its customization choices
type AddToCartRequest struct {
	MenuItemID   string `json:"menu_item_id"`
	Quantity     int    `json:"quantity"`
	ServingStyle string `json:"serving_style,omitempty"`
	Glasses      *int   `json:"glasses,omitempty"`
}

// UpdateQuantityRequest changes a cart line by delta
type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

// StatusRequest asks to move an order to Status
type StatusRequest struct {
	Status OrderStatus `json:"status"`
}

// GenerateSpecialRequest carries the ingredients or themes for a generated special
type GenerateSpecialRequest struct {
	Ingredients string `json:"ingredients"`
}

type TableModeRequest struct {
	Mode TableMode `json:"mode"`
}

type FoodAcceptanceRequest struct {
	Accepted bool `json:"accepted"`
}
