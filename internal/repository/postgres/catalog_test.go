package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/apperr"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/database"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return mock
}

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var restaurantCols = []string{
	"id", "name", "slug", "cuisine_type", "rating", "delivery_eta",
	"image_url", "is_open", "created_at", "updated_at",
}

var menuItemCols = []string{
	"id", "restaurant_id", "name", "description", "price", "category",
	"image_url", "is_veg", "is_available",
}

func sampleRestaurant() domain.Restaurant {
	return domain.Restaurant{
		ID:          "rest-1",
		Name:        "Spice Route",
		Slug:        "spice-route",
		CuisineType: "North Indian",
		Rating:      4.3,
		DeliveryETA: "30-40 min",
		ImageURL:    "https://img.example.com/spice.jpg",
		IsOpen:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func restaurantRow(r domain.Restaurant) []any {
	return []any{
		r.ID, r.Name, r.Slug, r.CuisineType, r.Rating, r.DeliveryETA,
		r.ImageURL, r.IsOpen, r.CreatedAt, r.UpdatedAt,
	}
}

func TestListRestaurants(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM restaurants ORDER BY rating DESC`).
		WillReturnRows(pgxmock.NewRows(restaurantCols).AddRow(restaurantRow(sampleRestaurant())...))

	restaurants, err := repo.ListRestaurants(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Spice Route", restaurants[0].Name)
	assert.InDelta(t, 4.3, restaurants[0].Rating, 0.001)
}

func TestListRestaurants_OpenOnly(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM restaurants WHERE is_open = TRUE`).
		WillReturnRows(pgxmock.NewRows(restaurantCols))

	restaurants, err := repo.ListRestaurants(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, restaurants)
}

func TestListRestaurants_QueryError(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM restaurants`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.ListRestaurants(context.Background(), false)
	assert.Error(t, err)
}

func TestGetRestaurant(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM restaurants WHERE id = \$1`).
		WithArgs("rest-1").
		WillReturnRows(pgxmock.NewRows(restaurantCols).AddRow(restaurantRow(sampleRestaurant())...))

	rest, err := repo.GetRestaurant(context.Background(), "rest-1")
	require.NoError(t, err)
	assert.Equal(t, "rest-1", rest.ID)
}

func TestGetRestaurant_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM restaurants WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(restaurantCols))

	_, err := repo.GetRestaurant(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListMenuItems(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)

	rows := pgxmock.NewRows(menuItemCols).
		AddRow("42", "rest-1", "Paneer Tikka", "Chargrilled paneer", "₹280", "Starters", "", true, true).
		AddRow("43", "rest-1", "Veg Biryani", "Hyderabadi style", "₹220", "Mains", "", true, false)

	mock.ExpectQuery(`SELECT .+ FROM menu_items WHERE restaurant_id = \$1`).
		WithArgs("rest-1").
		WillReturnRows(rows)

	items, err := repo.ListMenuItems(context.Background(), "rest-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "₹280", items[0].Price)
	assert.False(t, items[1].IsAvailable)
}

func TestGetMenuItem(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM menu_items WHERE id = \$1`).
		WithArgs("42").
		WillReturnRows(pgxmock.NewRows(menuItemCols).
			AddRow("42", "rest-1", "Paneer Tikka", "", "₹280", "Starters", "", true, true))

	item, err := repo.GetMenuItem(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Paneer Tikka", item.Name)
}

func TestGetMenuItem_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewCatalogRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM menu_items WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(menuItemCols))

	_, err := repo.GetMenuItem(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
