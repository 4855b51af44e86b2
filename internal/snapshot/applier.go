package snapshot

import (
	"izakaya-order/internal/catalog"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/orders"
)

// Applier replaces local state with a validated snapshot. A snapshot that fails
// validation is logged and dropped; the previous state stays in place.
type Applier struct {
	catalog *catalog.Store
	orders  *orders.Manager
	logger  *logger.Logger
}

func NewApplier(cat *catalog.Store, ord *orders.Manager, log *logger.Logger) *Applier {
	return &Applier{catalog: cat, orders: ord, logger: log}
}

// ApplyCatalog reports whether the catalog was replaced
func (a *Applier) ApplyCatalog(data []byte) bool {
	items, err := DecodeCatalog(data)
	if err != nil {
		a.reject("catalog", err)
		return false
	}
	a.catalog.Replace(items)
	a.logger.Debug("snapshot_applied", "Catalog snapshot applied", "", map[string]interface{}{
		"kind":  "catalog",
		"count": len(items),
	})
	return true
}

// ApplyOrders reports whether the order set was replaced
func (a *Applier) ApplyOrders(data []byte) bool {
	list, err := DecodeOrders(data)
	if err != nil {
		a.reject("orders", err)
		return false
	}
	a.orders.Replace(list)
	a.logger.Debug("snapshot_applied", "Orders snapshot applied", "", map[string]interface{}{
		"kind":  "orders",
		"count": len(list),
	})
	return true
}

func (a *Applier) reject(kind string, err error) {
	a.logger.Warn("snapshot_rejected", "Ignoring invalid snapshot", "", map[string]interface{}{
		"kind":   kind,
		"reason": err.Error(),
	})
}
