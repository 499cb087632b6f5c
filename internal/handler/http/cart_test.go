package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/event"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/service"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/apperr"
	pkgkafka "github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/kafka"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, userID string) (*domain.CartState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartState), args.Error(1)
}

func (m *mockCartRepository) SaveIfVersion(ctx context.Context, cart *domain.CartState, expectedVersion int) (bool, error) {
	args := m.Called(ctx, cart, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *mockCartRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) ListRestaurants(ctx context.Context, openOnly bool) ([]domain.Restaurant, error) {
	args := m.Called(ctx, openOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

func (m *mockCatalogRepository) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Restaurant), args.Error(1)
}

func (m *mockCatalogRepository) ListMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

func (m *mockCatalogRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MenuItem), args.Error(1)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func testCartHandler(carts *mockCartRepository, catalog *mockCatalogRepository) *CartHandler {
	svc := service.NewCartService(carts, catalog, testEventProducer(), testLogger(), 24*time.Hour)
	return NewCartHandler(svc, testLogger())
}

// setupCartRouter mirrors the production route layout including the
// UserIDFromHeader and ContentTypeJSON middleware so auth behavior is
// exercised end-to-end.
func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(UserIDFromHeader)

			r.Get("/cart", handler.GetCart)
			r.Delete("/cart", handler.ClearCart)
			r.Post("/cart/items", handler.AddItem)
			r.Put("/cart/items/{entryId}", handler.UpdateQuantity)
			r.Delete("/cart/items/{entryId}", handler.RemoveItem)
		})
	})
	return r
}

// testResponse mirrors the response envelope for decoding in assertions.
type testResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *errorResponse  `json:"error"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) domain.CartState {
	t.Helper()
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)
	var cart domain.CartState
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	return cart
}

func storedCart(userID string) *domain.CartState {
	now := time.Now().UTC()
	item := domain.MenuItem{
		ID:           "item-1",
		RestaurantID: "rest-1",
		Name:         "Butter Paneer",
		Price:        "₹280",
		Category:     "Main Course",
		IsAvailable:  true,
	}
	return &domain.CartState{
		ID:     "cart-123",
		UserID: userID,
		Entries: []domain.CartEntry{
			{EntryID: domain.EntryID(item.ID, nil), Item: item, Quantity: 2},
		},
		TotalItems:  2,
		TotalAmount: 560,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(24 * time.Hour),
	}
}

// ============================================================================
// Auth middleware
// ============================================================================

func TestCartEndpoints_RequireUserID(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodDelete, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart/items"},
		{http.MethodPut, "/api/v1/cart/items/base::item-1"},
		{http.MethodDelete, "/api/v1/cart/items/base::item-1"},
	}

	for _, tc := range requests {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	}
}

func TestContentTypeJSON_RejectsOtherTypes(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("item_id=1"))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// GET /cart
// ============================================================================

func TestGetCart_HTTP(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	expected := storedCart("user-1")
	carts.On("Get", mock.Anything, "user-1").Return(expected, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	assert.Equal(t, "user-1", cart.UserID)
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, "base::item-1", cart.Entries[0].EntryID)

	carts.AssertExpectations(t)
}

func TestGetCart_HTTP_NoCartYet(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	carts.On("Get", mock.Anything, "user-1").Return(nil, apperr.NotFound("cart", "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	assert.Empty(t, cart.Entries)
	assert.Equal(t, 0, cart.TotalItems)
}

// ============================================================================
// POST /cart/items
// ============================================================================

func TestAddItem_HTTP(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	catalog.On("GetMenuItem", mock.Anything, "item-1").Return(&domain.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Butter Paneer",
		Price: "₹280", Category: "Main Course", IsAvailable: true,
	}, nil)
	carts.On("Get", mock.Anything, "user-1").Return(nil, apperr.NotFound("cart", "user-1"))
	carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.CartState"), 0).Return(true, nil)

	body, _ := json.Marshal(AddItemRequest{ItemID: "item-1", Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 2, cart.Entries[0].Quantity)
	assert.Equal(t, int64(560), cart.TotalAmount)

	carts.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestAddItem_HTTP_ValidationError(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	body, _ := json.Marshal(AddItemRequest{ItemID: "", Quantity: 0})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "item_id")
	assert.Contains(t, resp.Error.Fields, "quantity")
}

func TestAddItem_HTTP_MalformedBody(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewBufferString("{not json"))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestAddItem_HTTP_UnknownMenuItem(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	catalog.On("GetMenuItem", mock.Anything, "item-404").Return(nil, apperr.NotFound("menu item", "item-404"))

	body, _ := json.Marshal(AddItemRequest{ItemID: "item-404", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestAddItem_HTTP_VersionConflict(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	catalog.On("GetMenuItem", mock.Anything, "item-1").Return(&domain.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Butter Paneer",
		Price: "₹280", IsAvailable: true,
	}, nil)
	carts.On("Get", mock.Anything, "user-1").Return(storedCart("user-1"), nil)
	carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.CartState"), 1).Return(false, nil)

	body, _ := json.Marshal(AddItemRequest{ItemID: "item-1", Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

// ============================================================================
// PUT /cart/items/{entryId}
// ============================================================================

func TestUpdateQuantity_HTTP(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	carts.On("Get", mock.Anything, "user-1").Return(storedCart("user-1"), nil)
	carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.CartState"), 1).Return(true, nil)

	body, _ := json.Marshal(UpdateQuantityRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/base::item-1", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 5, cart.Entries[0].Quantity)
	assert.Equal(t, int64(1400), cart.TotalAmount)

	carts.AssertExpectations(t)
}

func TestUpdateQuantity_HTTP_UnknownEntryReturnsCartUnchanged(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	carts.On("Get", mock.Anything, "user-1").Return(storedCart("user-1"), nil)

	body, _ := json.Marshal(UpdateQuantityRequest{Quantity: 5})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/base::item-999", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 2, cart.Entries[0].Quantity)

	carts.AssertExpectations(t)
}

func TestUpdateQuantity_HTTP_NegativeQuantity(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	body, _ := json.Marshal(UpdateQuantityRequest{Quantity: -2})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/base::item-1", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

// ============================================================================
// DELETE /cart/items/{entryId} and DELETE /cart
// ============================================================================

func TestRemoveItem_HTTP(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	carts.On("Get", mock.Anything, "user-1").Return(storedCart("user-1"), nil)
	carts.On("SaveIfVersion", mock.Anything, mock.AnythingOfType("*domain.CartState"), 1).Return(true, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/base::item-1", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	assert.Empty(t, cart.Entries)

	carts.AssertExpectations(t)
}

func TestClearCart_HTTP(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCartRouter(testCartHandler(carts, catalog))

	carts.On("Delete", mock.Anything, "user-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	carts.AssertExpectations(t)
}
