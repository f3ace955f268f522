// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sip-sunshine/restaurant-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles menu catalogue lookups
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get retrieves a menu item by ID. Inactive items are still returned so that
// carts and orders can resolve names of items taken off the menu.
func (s *Service) Get(ctx context.Context, id uint) (*MenuItem, error) {
	return Find(s.db.WithContext(ctx), id)
}

// Find is Get against an explicit handle, e.g. an open transaction.
func Find(db *gorm.DB, id uint) (*MenuItem, error) {
	var item MenuItem
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve menu item: %w", err)
	}
	return &item, nil
}

// List returns active menu items, optionally restricted to one category,
// ordered by category and then sort order.
func (s *Service) List(ctx context.Context, category Category) ([]MenuItem, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true)

	if category != "" {
		if !category.IsValid() {
			return nil, apperrors.Validation("category", "Unknown menu category: %s", category)
		}
		query = query.Where("category = ?", category)
	}

	var items []MenuItem
	if err := query.Order("category ASC").Order("sort_order ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}
