package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"izakaya-order/internal/models"
)

// ValidationError reports the first invalid field found in a snapshot
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DecodeCatalog parses and validates a whole catalog collection.
// Any invalid record rejects the snapshot as a whole.
func DecodeCatalog(data []byte) ([]models.MenuItem, error) {
	if err := requireArray(data); err != nil {
		return nil, err
	}

	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	if err := ValidateCatalog(items); err != nil {
		return nil, err
	}
	return items, nil
}

// ValidateCatalog checks every item of a catalog collection and that ids are unique
func ValidateCatalog(items []models.MenuItem) error {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if err := validateItem(item, i); err != nil {
			return err
		}
		if seen[item.ID] {
			return ValidationError{
				Field:   fmt.Sprintf("items[%d].id", i),
				Message: "duplicate item id",
			}
		}
		seen[item.ID] = true
	}
	return nil
}

// DecodeOrders parses and validates a whole order collection
func DecodeOrders(data []byte) ([]models.Order, error) {
	if err := requireArray(data); err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders snapshot: %w", err)
	}
	if err := ValidateOrders(orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ValidateOrders checks every order of an order collection, including that each
// frozen total matches its lines, and that ids are unique
func ValidateOrders(orders []models.Order) error {
	seen := make(map[string]bool, len(orders))
	for i, order := range orders {
		if err := validateOrder(order, i); err != nil {
			return err
		}
		if seen[order.ID] {
			return ValidationError{
				Field:   fmt.Sprintf("orders[%d].id", i),
				Message: "duplicate order id",
			}
		}
		seen[order.ID] = true
	}
	return nil
}

func requireArray(data []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return ValidationError{Field: "snapshot", Message: "snapshot must be a JSON array"}
	}
	return nil
}

func validateItem(item models.MenuItem, index int) error {
	field := func(name string) string { return fmt.Sprintf("items[%d].%s", index, name) }

	if item.ID == "" {
		return ValidationError{Field: field("id"), Message: "item id is required"}
	}
	if strings.TrimSpace(item.Name) == "" {
		return ValidationError{Field: field("name"), Message: "item name is required"}
	}
	if item.Price < 0 {
		return ValidationError{Field: field("price"), Message: "item price must not be negative"}
	}
	if !item.Category.Valid() {
		return ValidationError{Field: field("category"), Message: "unknown category"}
	}
	if item.SubCategory != "" && !item.SubCategory.Valid() {
		return ValidationError{Field: field("sub_category"), Message: "unknown sub category"}
	}
	return nil
}

func validateOrder(order models.Order, index int) error {
	field := func(name string) string { return fmt.Sprintf("orders[%d].%s", index, name) }

	if order.ID == "" {
		return ValidationError{Field: field("id"), Message: "order id is required"}
	}
	if order.TableID == "" {
		return ValidationError{Field: field("table_id"), Message: "table id is required"}
	}
	if !order.Status.Valid() {
		return ValidationError{Field: field("status"), Message: "unknown status"}
	}
	if order.Timestamp.IsZero() {
		return ValidationError{Field: field("timestamp"), Message: "timestamp is required"}
	}
	if len(order.Lines) == 0 {
		return ValidationError{Field: field("lines"), Message: "order must have at least one line"}
	}

	total := 0
	for j, line := range order.Lines {
		lineField := func(name string) string { return field(fmt.Sprintf("lines[%d].%s", j, name)) }

		if line.MenuItemID == "" {
			return ValidationError{Field: lineField("menu_item_id"), Message: "menu item id is required"}
		}
		if line.Quantity < 1 {
			return ValidationError{Field: lineField("quantity"), Message: "quantity must be at least 1"}
		}
		if line.Price < 0 {
			return ValidationError{Field: lineField("price"), Message: "price must not be negative"}
		}
		total += line.Subtotal()
	}

	if total != order.TotalAmount {
		return ValidationError{
			Field:   field("total_amount"),
			Message: fmt.Sprintf("total %d does not match lines %d", order.TotalAmount, total),
		}
	}
	return nil
}
