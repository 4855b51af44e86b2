package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"izakaya-order/internal/cart"
	"izakaya-order/internal/catalog"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
	"izakaya-order/internal/orders"
	"izakaya-order/internal/policy"
	"izakaya-order/internal/snapshot"
	"izakaya-order/internal/telemetry"
)

// Persister stores whole collections
type Persister interface {
	SaveCatalog(ctx context.Context, items []models.MenuItem) error
	SaveOrders(ctx context.Context, orders []models.Order) error
}

// Loader reads back what a Persister stored
type Loader interface {
	LoadCatalog(ctx context.Context) ([]models.MenuItem, error)
	LoadOrders(ctx context.Context) ([]models.Order, error)
}

// Broadcaster sends snapshots to the other running instances
type Broadcaster interface {
	PublishSnapshot(ctx context.Context, msg models.SnapshotMessage) error
}

// State is the process-wide state every HTTP service works on. Mutations go through
// the stores; callers then report the change so it is persisted and broadcast.
type State struct {
	Catalog  *catalog.Store
	Orders   *orders.Manager
	Policy   *policy.Policy
	Carts    *cart.Sessions
	Location *time.Location
	Instance string
	Metrics  *telemetry.OrderMetrics

	persister   Persister
	broadcaster Broadcaster
	logger      *logger.Logger
}

type Option func(*State)

func WithPersister(p Persister) Option {
	return func(s *State) { s.persister = p }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(s *State) { s.broadcaster = b }
}

// WithLocation sets the timezone used to split sales into days
func WithLocation(loc *time.Location) Option {
	return func(s *State) { s.Location = loc }
}

// WithInstance names this process in the snapshots it broadcasts
func WithInstance(id string) Option {
	return func(s *State) { s.Instance = id }
}

func New(cat *catalog.Store, ord *orders.Manager, pol *policy.Policy, log *logger.Logger, opts ...Option) *State {
	s := &State{
		Catalog:  cat,
		Orders:   ord,
		Policy:   pol,
		Carts:    cart.NewSessions(),
		Location: time.Local,
		Instance: logger.GenerateRequestID(),
		Metrics:  telemetry.NewOrderMetrics(),
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads persisted collections into the stores. An empty catalog is seeded
// with seed and saved so the next start finds it. A stored collection that fails
// validation is rejected with a warning: the catalog falls back to seed when nothing
// is loaded yet, and the order set stays as it was.
func (s *State) Restore(ctx context.Context, src Loader, seed []models.MenuItem) error {
	items, err := src.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	switch {
	case len(items) == 0:
		s.Catalog.Replace(seed)
		if s.persister != nil {
			if err := s.persister.SaveCatalog(ctx, seed); err != nil {
				return fmt.Errorf("failed to save seed catalog: %w", err)
			}
		}
		s.logger.Info("catalog_seeded", "Catalog was empty, seeded default menu", "startup", map[string]interface{}{
			"items": len(seed),
		})
	default:
		if err := snapshot.ValidateCatalog(items); err != nil {
			s.rejectStored("catalog", err)
			if len(s.Catalog.List()) == 0 {
				s.Catalog.Replace(seed)
			}
			break
		}
		s.Catalog.Replace(items)
	}

	list, err := src.LoadOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	if err := snapshot.ValidateOrders(list); err != nil {
		s.rejectStored("orders", err)
	} else {
		s.Orders.Replace(list)
	}

	s.logger.Info("state_restored", "State restored from database", "startup", map[string]interface{}{
		"items":  len(s.Catalog.List()),
		"orders": len(s.Orders.All()),
	})
	return nil
}

func (s *State) rejectStored(kind string, err error) {
	s.logger.Warn("snapshot_rejected", "Ignoring invalid stored collection", "startup", map[string]interface{}{
		"kind":   kind,
		"source": "database",
		"reason": err.Error(),
	})
}

// CatalogChanged persists the catalog and broadcasts it to the other instances
func (s *State) CatalogChanged(ctx context.Context) error {
	items := s.Catalog.List()

	var errs []error
	if s.persister != nil {
		if err := s.persister.SaveCatalog(ctx, items); err != nil {
			errs = append(errs, fmt.Errorf("failed to persist catalog: %w", err))
		}
	}
	if s.broadcaster != nil {
		data, err := s.Catalog.Snapshot()
		if err == nil {
			err = s.broadcast(ctx, models.SnapshotCatalog, data)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OrdersChanged persists the order set and broadcasts it to the other instances
func (s *State) OrdersChanged(ctx context.Context) error {
	list := s.Orders.All()

	var errs []error
	if s.persister != nil {
		if err := s.persister.SaveOrders(ctx, list); err != nil {
			errs = append(errs, fmt.Errorf("failed to persist orders: %w", err))
		}
	}
	if s.broadcaster != nil {
		data, err := json.Marshal(list)
		if err == nil {
			err = s.broadcast(ctx, models.SnapshotOrders, data)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *State) broadcast(ctx context.Context, kind models.SnapshotKind, data json.RawMessage) error {
	msg := models.SnapshotMessage{
		Kind:      kind,
		Origin:    s.Instance,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	if err := s.broadcaster.PublishSnapshot(ctx, msg); err != nil {
		return fmt.Errorf("failed to broadcast %s snapshot: %w", kind, err)
	}
	return nil
}
