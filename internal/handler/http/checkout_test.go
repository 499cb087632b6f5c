package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/service"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/apperr"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/httpclient"
)

func setupCheckoutRouter(t *testing.T, carts *mockCartRepository, catalog *mockCatalogRepository, orderStatus int) *chi.Mux {
	t.Helper()

	orderSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(orderStatus)
		if orderStatus >= 200 && orderStatus <= 299 {
			json.NewEncoder(w).Encode(map[string]string{"order_id": "order-42"})
		}
	}))
	t.Cleanup(orderSrv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 0
	svc := service.NewCheckoutService(
		carts, catalog, testEventProducer(), testLogger(),
		httpclient.New(cfg), orderSrv.URL,
		domain.FeePolicy{DeliveryFee: 40, FreeDeliveryOver: 500},
	)
	handler := NewCheckoutHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(UserIDFromHeader)
			r.Post("/checkout", handler.Checkout)
		})
	})
	return r
}

func checkoutRequest(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCheckout_HTTP_Success(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCheckoutRouter(t, carts, catalog, http.StatusCreated)

	carts.On("Get", mock.Anything, "user-1").Return(storedCart("user-1"), nil)
	catalog.On("GetMenuItem", mock.Anything, "item-1").Return(&domain.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Butter Paneer",
		Price: "₹280", IsAvailable: true,
	}, nil)
	catalog.On("GetRestaurant", mock.Anything, "rest-1").Return(&domain.Restaurant{
		ID: "rest-1", Name: "Punjabi Tadka", IsOpen: true,
	}, nil)
	carts.On("Delete", mock.Anything, "user-1").Return(nil)

	body, _ := json.Marshal(CheckoutRequest{RestaurantID: "rest-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, checkoutRequest(body))

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	var result service.CheckoutResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "order-42", result.OrderID)
	assert.Equal(t, int64(560), result.Draft.Total)

	carts.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestCheckout_HTTP_Blocked(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCheckoutRouter(t, carts, catalog, http.StatusCreated)

	cart := storedCart("user-1")
	unavailable := domain.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Butter Paneer",
		Price: "₹280", IsAvailable: false,
	}
	carts.On("Get", mock.Anything, "user-1").Return(cart, nil)
	catalog.On("GetMenuItem", mock.Anything, "item-1").Return(&unavailable, nil)

	body, _ := json.Marshal(CheckoutRequest{RestaurantID: "rest-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, checkoutRequest(body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CHECKOUT_BLOCKED", resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Contains(t, resp.Error.Details[0], "Butter Paneer")
}

func TestCheckout_HTTP_EmptyCart(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCheckoutRouter(t, carts, catalog, http.StatusCreated)

	carts.On("Get", mock.Anything, "user-1").Return(nil, apperr.NotFound("cart", "user-1"))

	body, _ := json.Marshal(CheckoutRequest{RestaurantID: "rest-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, checkoutRequest(body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "cart is empty")
}

func TestCheckout_HTTP_MissingRestaurantID(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCheckoutRouter(t, carts, catalog, http.StatusCreated)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, checkoutRequest([]byte(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestCheckout_HTTP_OrderServiceDown(t *testing.T) {
	carts := new(mockCartRepository)
	catalog := new(mockCatalogRepository)
	router := setupCheckoutRouter(t, carts, catalog, http.StatusBadGateway)

	carts.On("Get", mock.Anything, "user-1").Return(storedCart("user-1"), nil)
	catalog.On("GetMenuItem", mock.Anything, "item-1").Return(&domain.MenuItem{
		ID: "item-1", RestaurantID: "rest-1", Name: "Butter Paneer",
		Price: "₹280", IsAvailable: true,
	}, nil)
	catalog.On("GetRestaurant", mock.Anything, "rest-1").Return(&domain.Restaurant{
		ID: "rest-1", Name: "Punjabi Tadka", IsOpen: true,
	}, nil)

	body, _ := json.Marshal(CheckoutRequest{RestaurantID: "rest-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, checkoutRequest(body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
