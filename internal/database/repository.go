package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"izakaya-order/internal/models"
)

// SnapshotRepository persists the catalog and the order set as whole collections.
// Each save replaces the stored collection inside one transaction.
type SnapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveCatalog replaces the stored catalog with items, keeping their order
func (r *SnapshotRepository) SaveCatalog(ctx context.Context, items []models.MenuItem) error {
	return r.replace(ctx, DeleteMenuItemsSQL, func(batch *pgx.Batch) {
		for i, item := range items {
			batch.Queue(InsertMenuItemSQL,
				item.ID, i, item.Name, item.Price, string(item.Category), string(item.SubCategory),
				item.Description, item.ImageURL, item.SoldOut, item.Special)
		}
	})
}

// LoadCatalog returns the stored catalog. An empty result means nothing was saved yet.
func (r *SnapshotRepository) LoadCatalog(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := r.db.Query(ctx, GetMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var (
			item             models.MenuItem
			category, subCat string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &category, &subCat,
			&item.Description, &item.ImageURL, &item.SoldOut, &item.Special); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		item.Category = models.Category(category)
		item.SubCategory = models.FoodSubcategory(subCat)
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveOrders replaces the stored order set, lines included
func (r *SnapshotRepository) SaveOrders(ctx context.Context, orders []models.Order) error {
	return r.replace(ctx, DeleteOrdersSQL, func(batch *pgx.Batch) {
		for _, o := range orders {
			batch.Queue(InsertOrderSQL, o.ID, o.Seq, o.TableID, string(o.Status), o.TotalAmount, o.Timestamp)
			for i, l := range o.Lines {
				batch.Queue(InsertOrderLineSQL, o.ID, i, l.MenuItemID, l.Name, l.Price, l.Quantity, l.Customizations)
			}
		}
	})
}

// LoadOrders returns every stored order in submission order
func (r *SnapshotRepository) LoadOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.Query(ctx, GetOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var orders []models.Order
	index := make(map[string]int)
	for rows.Next() {
		var (
			o      models.Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.Seq, &o.TableID, &status, &o.TotalAmount, &o.Timestamp); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Status = models.OrderStatus(status)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	lines, err := r.db.Query(ctx, GetOrderLinesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer lines.Close()

	for lines.Next() {
		var (
			orderID string
			l       models.OrderLine
		)
		if err := lines.Scan(&orderID, &l.MenuItemID, &l.Name, &l.Price, &l.Quantity, &l.Customizations); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Lines = append(orders[i].Lines, l)
		}
	}
	return orders, lines.Err()
}

// replace runs clearSQL and the queued inserts in a single transaction
func (r *SnapshotRepository) replace(ctx context.Context, clearSQL string, fill func(*pgx.Batch)) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, clearSQL); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	batch := &pgx.Batch{}
	fill(batch)
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert collection: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
