package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"izakaya-order/internal/models"
	"izakaya-order/internal/policy"
)

// Store holds the sellable menu items. It is the single source of truth for the
// catalog inside one process; all access goes through its methods.
type Store struct {
	mu    sync.RWMutex
	items []models.MenuItem
	rules Rules
	newID func() string
}

// NewStore creates a catalog store seeded with items
func NewStore(rules Rules, items []models.MenuItem) *Store {
	return &Store{
		items: append([]models.MenuItem(nil), items...),
		rules: rules,
		newID: func() string { return "prod-" + uuid.NewString() },
	}
}

// Rules returns the matching rules used for customizations and drink grouping
func (s *Store) Rules() Rules {
	return s.rules
}

// List returns a copy of every item in catalog order
func (s *Store) List() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MenuItem(nil), s.items...)
}

// Get looks up an item by id
func (s *Store) Get(id string) (models.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return models.MenuItem{}, false
}

// Add assigns an identity to draft, marks it available and puts it at the top of the menu.
// It returns false without changing the catalog if the draft is invalid.
func (s *Store) Add(draft models.MenuItemDraft) (models.MenuItem, bool) {
	if strings.TrimSpace(draft.Name) == "" || draft.Price < 0 || !draft.Category.Valid() {
		return models.MenuItem{}, false
	}
	if draft.SubCategory != "" && !draft.SubCategory.Valid() {
		return models.MenuItem{}, false
	}

	item := models.MenuItem{
		ID:          s.newID(),
		Name:        strings.TrimSpace(draft.Name),
		Price:       draft.Price,
		Category:    draft.Category,
		SubCategory: draft.SubCategory,
		Description: draft.Description,
		ImageURL:    draft.ImageURL,
		SoldOut:     false,
		Special:     draft.Special,
	}
	if item.Category == models.CategoryFood && item.SubCategory == "" {
		item.SubCategory = models.SubcategoryOther
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.MenuItem{item}, s.items...)
	return item, true
}

// Update applies patch to the item with id. Unknown ids and invalid patches are no-ops
// and report false.
func (s *Store) Update(id string, patch models.MenuItemPatch) bool {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return false
	}
	if patch.Price != nil && *patch.Price < 0 {
		return false
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return false
	}
	if patch.SubCategory != nil && *patch.SubCategory != "" && !patch.SubCategory.Valid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	item := s.items[i]
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.SubCategory != nil {
		item.SubCategory = *patch.SubCategory
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		item.ImageURL = *patch.ImageURL
	}
	if patch.SoldOut != nil {
		item.SoldOut = *patch.SoldOut
	}
	s.items[i] = item
	return true
}

// Delete removes the item permanently. It reports whether anything was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return true
}

// ToggleSoldOut flips the sold-out flag and returns the updated item
func (s *Store) ToggleSoldOut(id string) (models.MenuItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.MenuItem{}, false
	}
	s.items[i].SoldOut = !s.items[i].SoldOut
	return s.items[i], true
}

// Replace swaps the whole collection, as received from persistence or another instance
func (s *Store) Replace(items []models.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.MenuItem(nil), items...)
}

// Snapshot encodes the whole collection for persistence or replication
func (s *Store) Snapshot() (json.RawMessage, error) {
	data, err := json.Marshal(s.List())
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return data, nil
}

// Addable returns the items a table may currently add to its cart
func (s *Store) Addable(mode models.TableMode, foodAccepted bool) []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.MenuItem
	for _, item := range s.items {
		if policy.Permits(mode, foodAccepted, item) {
			out = append(out, item)
		}
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// ParsePrice validates a price typed by staff. Non-numeric or negative input is rejected.
func ParsePrice(raw string) (int, bool) {
	price, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || price < 0 {
		return 0, false
	}
	return price, true
}
