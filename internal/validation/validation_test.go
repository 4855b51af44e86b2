package validation

import (
	"testing"

	"izakaya-order/internal/models"
)

func TestValidateTableID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "first table", raw: "1", want: "1"},
		{name: "last table", raw: "7", want: "7"},
		{name: "leading zero normalized", raw: "03", want: "3"},
		{name: "zero", raw: "0", wantErr: true},
		{name: "beyond last", raw: "8", wantErr: true},
		{name: "not a number", raw: "a", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTableID(tt.raw, 7)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateTableID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateAddToCart(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.AddToCartRequest
		wantErr bool
	}{
		{name: "valid request", req: &models.AddToCartRequest{MenuItemID: "beer", Quantity: 2}},
		{name: "missing item", req: &models.AddToCartRequest{Quantity: 1}, wantErr: true},
		{name: "zero quantity", req: &models.AddToCartRequest{MenuItemID: "beer"}, wantErr: true},
		{name: "too many", req: &models.AddToCartRequest{MenuItemID: "beer", Quantity: 100}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddToCart(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddToCart() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDelta(t *testing.T) {
	if err := ValidateDelta(0); err == nil {
		t.Error("ValidateDelta(0) expected error")
	}
	if err := ValidateDelta(-1); err != nil {
		t.Errorf("ValidateDelta(-1) error = %v", err)
	}
}

func TestValidateMenuItemRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       *models.MenuItemRequest
		wantPrice int
		wantErr   bool
	}{
		{
			name:      "valid request",
			req:       &models.MenuItemRequest{Name: " 焼き鳥 ", Price: "480", Category: models.CategoryFood, SubCategory: models.SubcategoryMain},
			wantPrice: 480,
		},
		{
			name:      "free item",
			req:       &models.MenuItemRequest{Name: "お通し", Price: "0", Category: models.CategoryFood},
			wantPrice: 0,
		},
		{
			name:    "blank name",
			req:     &models.MenuItemRequest{Name: "  ", Price: "480", Category: models.CategoryFood},
			wantErr: true,
		},
		{
			name:    "non numeric price",
			req:     &models.MenuItemRequest{Name: "焼き鳥", Price: "abc", Category: models.CategoryFood},
			wantErr: true,
		},
		{
			name:    "negative price",
			req:     &models.MenuItemRequest{Name: "焼き鳥", Price: "-1", Category: models.CategoryFood},
			wantErr: true,
		},
		{
			name:    "unknown category",
			req:     &models.MenuItemRequest{Name: "焼き鳥", Price: "480", Category: "デザート"},
			wantErr: true,
		},
		{
			name:    "unknown sub category",
			req:     &models.MenuItemRequest{Name: "焼き鳥", Price: "480", Category: models.CategoryFood, SubCategory: "汁物"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := ValidateMenuItemRequest(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateMenuItemRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && draft.Price != tt.wantPrice {
				t.Errorf("ValidateMenuItemRequest() price = %d, want %d", draft.Price, tt.wantPrice)
			}
			if err == nil && draft.Name != "焼き鳥" && draft.Name != "お通し" {
				t.Errorf("ValidateMenuItemRequest() name = %q, want trimmed", draft.Name)
			}
		})
	}
}

func TestValidateIngredients(t *testing.T) {
	if err := ValidateIngredients(" 秋刀魚、すだち "); err != nil {
		t.Errorf("ValidateIngredients() error = %v", err)
	}
	if err := ValidateIngredients("   "); err == nil {
		t.Error("ValidateIngredients() expected error for blank input")
	}
}
