package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/service"
)

// CatalogHandler handles HTTP requests for the restaurant catalog.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// ListRestaurants handles GET /api/v1/restaurants?open=true
func (h *CatalogHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	openOnly := r.URL.Query().Get("open") == "true"

	restaurants, err := h.service.ListRestaurants(r.Context(), openOnly)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: restaurants})
}

// GetRestaurant handles GET /api/v1/restaurants/{restaurantId}
func (h *CatalogHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "restaurantId")

	restaurant, err := h.service.GetRestaurant(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: restaurant})
}

// GetMenu handles GET /api/v1/restaurants/{restaurantId}/menu
func (h *CatalogHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "restaurantId")

	menu, err := h.service.GetMenu(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: menu})
}
