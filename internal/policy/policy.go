package policy

import (
	"context"
	"fmt"

	"izakaya-order/internal/models"
)

// Store persists table modes and the food-acceptance flag
type Store interface {
	TableMode(ctx context.Context, tableID string) (models.TableMode, bool, error)
	SetTableMode(ctx context.Context, tableID string, mode models.TableMode) error
	FoodAccepted(ctx context.Context) (bool, bool, error)
	SetFoodAccepted(ctx context.Context, enabled bool) error
}

// Policy answers which catalog entries a table may order right now.
// It only stores and reports; callers decide whether to block an action.
type Policy struct {
	store Store
}

func New(store Store) *Policy {
	return &Policy{store: store}
}

// SetTableMode records the ordering mode for a table
func (p *Policy) SetTableMode(ctx context.Context, tableID string, mode models.TableMode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid table mode %q", mode)
	}
	return p.store.SetTableMode(ctx, tableID, mode)
}

// TableMode returns the mode for a table, à la carte when never set
func (p *Policy) TableMode(ctx context.Context, tableID string) (models.TableMode, error) {
	mode, ok, err := p.store.TableMode(ctx, tableID)
	if err != nil {
		return models.ModeALaCarte, fmt.Errorf("failed to read table mode: %w", err)
	}
	if !ok {
		return models.ModeALaCarte, nil
	}
	return mode, nil
}

// SetFoodAcceptance turns food ordering on or off for every table
func (p *Policy) SetFoodAcceptance(ctx context.Context, enabled bool) error {
	return p.store.SetFoodAccepted(ctx, enabled)
}

// IsFoodAccepted reports the global flag. The kitchen accepts food until told otherwise.
func (p *Policy) IsFoodAccepted(ctx context.Context) (bool, error) {
	accepted, ok, err := p.store.FoodAccepted(ctx)
	if err != nil {
		return true, fmt.Errorf("failed to read food acceptance: %w", err)
	}
	if !ok {
		return true, nil
	}
	return accepted, nil
}

// Permits reports whether item may be added under mode and the food flag.
// Sold-out items are never permitted.
func Permits(mode models.TableMode, foodAccepted bool, item models.MenuItem) bool {
	if item.SoldOut {
		return false
	}
	if item.Category.IsFood() && !foodAccepted {
		return false
	}
	if mode == models.ModeDrinkPlan && !item.Category.IsDrink() {
		return false
	}
	return true
}
