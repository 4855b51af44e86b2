package database

// Catalog queries
const (
	DeleteMenuItemsSQL = `DELETE FROM menu_items`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (id, position, name, price, category, sub_category, description, image_url, sold_out, special)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	GetMenuItemsSQL = `
		SELECT id, name, price, category, sub_category, description, image_url, sold_out, special
		FROM menu_items
		ORDER BY position ASC`
)

// Order queries
const (
	DeleteOrdersSQL = `DELETE FROM orders`

	InsertOrderSQL = `
		INSERT INTO orders (id, seq, table_id, status, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	InsertOrderLineSQL = `
		INSERT INTO order_lines (order_id, line_no, menu_item_id, name, price, quantity, customizations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	GetOrdersSQL = `
		SELECT id, seq, table_id, status, total_amount, created_at
		FROM orders
		ORDER BY seq ASC`

	GetOrderLinesSQL = `
		SELECT order_id, menu_item_id, name, price, quantity, customizations
		FROM order_lines
		ORDER BY order_id, line_no ASC`
)
