package menu

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"izakaya-order/internal/app"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/menugen"
	"izakaya-order/internal/models"
)

var (
	ErrItemNotFound = errors.New("menu item not found")
	ErrInvalidItem  = errors.New("invalid menu item")
)

var tracer = otel.Tracer("izakaya-order/services/menu")

// Service implements menu administration and the ordering policy toggles.
// Every catalog change is persisted and broadcast through the shared state.
type Service struct {
	state     *app.State
	generator menugen.Generator
	logger    *logger.Logger
}

func NewService(state *app.State, generator menugen.Generator, log *logger.Logger) *Service {
	return &Service{
		state:     state,
		generator: generator,
		logger:    log,
	}
}

// Items returns the whole catalog including sold-out items
func (s *Service) Items() []models.MenuItem {
	items := s.state.Catalog.List()
	if items == nil {
		return []models.MenuItem{}
	}
	return items
}

// Create adds draft to the top of the menu
func (s *Service) Create(ctx context.Context, draft models.MenuItemDraft, requestID string) (models.MenuItem, error) {
	item, ok := s.state.Catalog.Add(draft)
	if !ok {
		return models.MenuItem{}, ErrInvalidItem
	}
	s.changed(ctx, requestID)

	s.logger.Info("menu_item_created", fmt.Sprintf("Menu item %s created", item.Name), requestID, map[string]interface{}{
		"menu_item_id": item.ID,
		"category":     item.Category,
		"price":        item.Price,
		"special":      item.Special,
	})
	return item, nil
}

// Update applies patch to the item with id and returns the result
func (s *Service) Update(ctx context.Context, id string, patch models.MenuItemPatch, requestID string) (models.MenuItem, error) {
	if _, ok := s.state.Catalog.Get(id); !ok {
		return models.MenuItem{}, ErrItemNotFound
	}
	if !s.state.Catalog.Update(id, patch) {
		return models.MenuItem{}, ErrInvalidItem
	}
	s.changed(ctx, requestID)

	item, ok := s.state.Catalog.Get(id)
	if !ok {
		return models.MenuItem{}, ErrItemNotFound
	}
	s.logger.Info("menu_item_updated", fmt.Sprintf("Menu item %s updated", id), requestID, map[string]interface{}{
		"menu_item_id": id,
	})
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id, requestID string) error {
	if !s.state.Catalog.Delete(id) {
		return ErrItemNotFound
	}
	s.changed(ctx, requestID)

	s.logger.Info("menu_item_deleted", fmt.Sprintf("Menu item %s deleted", id), requestID, map[string]interface{}{
		"menu_item_id": id,
	})
	return nil
}

// ToggleSoldOut flips the sold-out flag of the item with id
func (s *Service) ToggleSoldOut(ctx context.Context, id, requestID string) (models.MenuItem, error) {
	item, ok := s.state.Catalog.ToggleSoldOut(id)
	if !ok {
		return models.MenuItem{}, ErrItemNotFound
	}
	s.changed(ctx, requestID)

	s.logger.Info("menu_item_sold_out_toggled", fmt.Sprintf("Menu item %s sold out: %t", id, item.SoldOut), requestID, map[string]interface{}{
		"menu_item_id": id,
		"sold_out":     item.SoldOut,
	})
	return item, nil
}

// GenerateSpecial drafts a daily special from ingredients and adds it to the menu.
// Generator failures are returned as is so the caller can show their message.
func (s *Service) GenerateSpecial(ctx context.Context, ingredients, requestID string) (models.MenuItem, error) {
	ctx, span := tracer.Start(ctx, "menu.generate_special")
	defer span.End()
	span.SetAttributes(attribute.String("menugen.ingredients", ingredients))

	draft, err := s.generator.Generate(ctx, ingredients)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("special_generation_failed", "Failed to generate special", requestID, err, map[string]interface{}{
			"ingredients": ingredients,
		})
		return models.MenuItem{}, err
	}
	return s.Create(ctx, draft, requestID)
}

func (s *Service) TableMode(ctx context.Context, tableID string) (models.TableMode, error) {
	return s.state.Policy.TableMode(ctx, tableID)
}

func (s *Service) SetTableMode(ctx context.Context, tableID string, mode models.TableMode, requestID string) error {
	if err := s.state.Policy.SetTableMode(ctx, tableID, mode); err != nil {
		return err
	}
	s.logger.Info("table_mode_changed", fmt.Sprintf("Table %s switched to %s", tableID, mode), requestID, map[string]interface{}{
		"table_id": tableID,
		"mode":     mode,
	})
	return nil
}

func (s *Service) FoodAccepted(ctx context.Context) (bool, error) {
	return s.state.Policy.IsFoodAccepted(ctx)
}

func (s *Service) SetFoodAccepted(ctx context.Context, accepted bool, requestID string) error {
	if err := s.state.Policy.SetFoodAcceptance(ctx, accepted); err != nil {
		return err
	}
	s.logger.Info("food_acceptance_changed", fmt.Sprintf("Food acceptance set to %t", accepted), requestID, map[string]interface{}{
		"accepted": accepted,
	})
	return nil
}

// changed reports a catalog mutation. The in-memory change stands even if sync fails.
func (s *Service) changed(ctx context.Context, requestID string) {
	if err := s.state.CatalogChanged(ctx); err != nil {
		s.logger.Error("catalog_sync_failed", "Failed to persist or broadcast catalog", requestID, err, nil)
	}
}
