package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/repository"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/apperr"
)

// CatalogService serves the read-only restaurant and menu catalog.
type CatalogService struct {
	catalog repository.CatalogRepository
	logger  *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(catalog repository.CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: logger}
}

// ListRestaurants returns restaurants, optionally only those currently
// open.
func (s *CatalogService) ListRestaurants(ctx context.Context, openOnly bool) ([]domain.Restaurant, error) {
	restaurants, err := s.catalog.ListRestaurants(ctx, openOnly)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// GetRestaurant returns one restaurant by ID.
func (s *CatalogService) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	if id == "" {
		return nil, apperr.InvalidInput("restaurant id is required")
	}
	restaurant, err := s.catalog.GetRestaurant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return restaurant, nil
}

// Menu bundles a restaurant with its menu items grouped into category
// display order.
type Menu struct {
	Restaurant domain.Restaurant `json:"restaurant"`
	Items      []domain.MenuItem `json:"items"`
}

// GetMenu returns a restaurant's menu with items in category order.
func (s *CatalogService) GetMenu(ctx context.Context, restaurantID string) (*Menu, error) {
	if restaurantID == "" {
		return nil, apperr.InvalidInput("restaurant id is required")
	}

	restaurant, err := s.catalog.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	items, err := s.catalog.ListMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}

	return &Menu{Restaurant: *restaurant, Items: items}, nil
}
