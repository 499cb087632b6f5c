package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/service"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/validator"
)

// CheckoutHandler handles HTTP requests for the checkout endpoint.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: svc, logger: logger}
}

// CheckoutRequest is the JSON request body for submitting a checkout.
type CheckoutRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "X-User-ID header is required")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.service.Checkout(r.Context(), userID, service.CheckoutInput{
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: result})
}
