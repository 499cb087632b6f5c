package repository

import (
	"context"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
)

// CartRepository persists per-user cart state.
type CartRepository interface {
	// Get retrieves a cart by user ID.
	Get(ctx context.Context, userID string) (*domain.CartState, error)

	// SaveIfVersion persists the cart only when the stored version still
	// equals expectedVersion, bumping the version on success. Returns
	// false without error on a version conflict.
	SaveIfVersion(ctx context.Context, cart *domain.CartState, expectedVersion int) (bool, error)

	// Delete removes the cart for a user.
	Delete(ctx context.Context, userID string) error
}

// CatalogRepository reads the restaurant and menu catalog.
type CatalogRepository interface {
	// ListRestaurants returns restaurants, optionally only open ones.
	ListRestaurants(ctx context.Context, openOnly bool) ([]domain.Restaurant, error)

	// GetRestaurant returns one restaurant by ID.
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)

	// ListMenuItems returns a restaurant's menu in category order.
	ListMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)

	// GetMenuItem returns one menu item by ID.
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
}
