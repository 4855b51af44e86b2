package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"izakaya-order/internal/catalog"
	"izakaya-order/internal/models"
)

const (
	maxNameLength        = 50
	maxIngredientsLength = 100
	maxQuantity          = 99
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateTableID accepts table numbers 1..maxTables and returns the canonical id
func ValidateTableID(raw string, maxTables int) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", ValidationError{
			Field:   "table_id",
			Message: "table id must be a number",
		}
	}
	if n < 1 || n > maxTables {
		return "", ValidationError{
			Field:   "table_id",
			Message: fmt.Sprintf("table id must be between 1 and %d", maxTables),
		}
	}
	return strconv.Itoa(n), nil
}

func ValidateAddToCart(req *models.AddToCartRequest) error {
	if req.MenuItemID == "" {
		return ValidationError{
			Field:   "menu_item_id",
			Message: "menu item id is required",
		}
	}
	if req.Quantity < 1 {
		return ValidationError{
			Field:   "quantity",
			Message: "quantity must be at least 1",
		}
	}
	if req.Quantity > maxQuantity {
		return ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("quantity must be less than or equal to %d", maxQuantity),
		}
	}
	return nil
}

func ValidateDelta(delta int) error {
	if delta == 0 {
		return ValidationError{
			Field:   "delta",
			Message: "delta must not be zero",
		}
	}
	return nil
}

// ValidateMenuItemRequest checks a staff menu form and converts it into a draft
func ValidateMenuItemRequest(req *models.MenuItemRequest) (models.MenuItemDraft, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.MenuItemDraft{}, ValidationError{
			Field:   "name",
			Message: "item name is required",
		}
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return models.MenuItemDraft{}, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("item name must be at most %d characters", maxNameLength),
		}
	}

	price, ok := catalog.ParsePrice(req.Price)
	if !ok {
		return models.MenuItemDraft{}, ValidationError{
			Field:   "price",
			Message: "price must be a non-negative whole number",
		}
	}

	if !req.Category.Valid() {
		return models.MenuItemDraft{}, ValidationError{
			Field:   "category",
			Message: "invalid category",
		}
	}
	if req.SubCategory != "" && !req.SubCategory.Valid() {
		return models.MenuItemDraft{}, ValidationError{
			Field:   "sub_category",
			Message: "invalid sub category",
		}
	}

	return models.MenuItemDraft{
		Name:        name,
		Price:       price,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Description: strings.TrimSpace(req.Description),
		ImageURL:    req.ImageURL,
	}, nil
}

func ValidateIngredients(ingredients string) error {
	ingredients = strings.TrimSpace(ingredients)
	if ingredients == "" {
		return ValidationError{
			Field:   "ingredients",
			Message: "ingredients are required",
		}
	}
	if utf8.RuneCountInString(ingredients) > maxIngredientsLength {
		return ValidationError{
			Field:   "ingredients",
			Message: fmt.Sprintf("ingredients must be at most %d characters", maxIngredientsLength),
		}
	}
	return nil
}
