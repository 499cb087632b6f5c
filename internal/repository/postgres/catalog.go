package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/apperr"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/database"
)

const restaurantColumns = `id, name, slug, cuisine_type, rating, delivery_eta,
	image_url, is_open, created_at, updated_at`

const menuItemColumns = `id, restaurant_id, name, description, price, category,
	image_url, is_veg, is_available`

// CatalogRepository reads restaurants and menus from PostgreSQL.
type CatalogRepository struct {
	db database.DBTX
}

// NewCatalogRepository creates a PostgreSQL-backed catalog repository.
func NewCatalogRepository(db database.DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListRestaurants returns restaurants ordered by rating, optionally
// filtered to open ones.
func (r *CatalogRepository) ListRestaurants(ctx context.Context, openOnly bool) ([]domain.Restaurant, error) {
	query := fmt.Sprintf(`SELECT %s FROM restaurants`, restaurantColumns)
	if openOnly {
		query += ` WHERE is_open = TRUE`
	}
	query += ` ORDER BY rating DESC, name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(
			&rest.ID, &rest.Name, &rest.Slug, &rest.CuisineType, &rest.Rating,
			&rest.DeliveryETA, &rest.ImageURL, &rest.IsOpen, &rest.CreatedAt, &rest.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return restaurants, nil
}

// GetRestaurant returns one restaurant by ID.
func (r *CatalogRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	query := fmt.Sprintf(`SELECT %s FROM restaurants WHERE id = $1`, restaurantColumns)

	var rest domain.Restaurant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rest.ID, &rest.Name, &rest.Slug, &rest.CuisineType, &rest.Rating,
		&rest.DeliveryETA, &rest.ImageURL, &rest.IsOpen, &rest.CreatedAt, &rest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("restaurant", id)
		}
		return nil, fmt.Errorf("query restaurant: %w", err)
	}
	return &rest, nil
}

// ListMenuItems returns a restaurant's menu ordered by category and name.
func (r *CatalogRepository) ListMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM menu_items WHERE restaurant_id = $1 ORDER BY category ASC, name ASC`,
		menuItemColumns,
	)

	rows, err := r.db.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price,
			&item.Category, &item.ImageURL, &item.IsVeg, &item.IsAvailable,
		); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return items, nil
}

// GetMenuItem returns one menu item by ID.
func (r *CatalogRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM menu_items WHERE id = $1`, menuItemColumns)

	var item domain.MenuItem
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price,
		&item.Category, &item.ImageURL, &item.IsVeg, &item.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("menu item", id)
		}
		return nil, fmt.Errorf("query menu item: %w", err)
	}
	return &item, nil
}
