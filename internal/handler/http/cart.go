package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/service"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a menu item to the
// cart. The item is resolved from the catalog server-side; clients never
// send prices.
type AddItemRequest struct {
	ItemID        string                `json:"item_id" validate:"required"`
	Quantity      int                   `json:"quantity" validate:"required,gte=1"`
	Customization *domain.Customization `json:"customization,omitempty"`
}

// UpdateQuantityRequest is the JSON request body for replacing an
// entry's quantity. Zero removes the entry.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "X-User-ID header is required")
		return
	}

	cart, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cart})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "X-User-ID header is required")
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), userID, service.AddItemInput{
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		Customization: req.Customization,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cart})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{entryId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "X-User-ID header is required")
		return
	}

	entryID := chi.URLParam(r, "entryId")
	if entryID == "" {
		writeBadRequest(w, "entryId is required")
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), userID, entryID, req.Quantity)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cart})
}

// RemoveItem handles DELETE /api/v1/cart/items/{entryId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "X-User-ID header is required")
		return
	}

	entryID := chi.URLParam(r, "entryId")
	if entryID == "" {
		writeBadRequest(w, "entryId is required")
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), userID, entryID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "X-User-ID header is required")
		return
	}

	if err := h.service.ClearCart(r.Context(), userID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}
