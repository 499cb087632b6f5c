package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/event"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/repository"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/apperr"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/httpclient"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.BreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CheckoutInput holds the parameters for submitting a checkout.
type CheckoutInput struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
}

// CheckoutResult is returned on successful order submission.
type CheckoutResult struct {
	OrderID string            `json:"order_id"`
	Draft   domain.OrderDraft `json:"draft"`
}

// orderServiceResponse is the minimal shape read back from the order
// service.
type orderServiceResponse struct {
	OrderID string `json:"order_id"`
}

// CheckoutService gates and submits orders to the order service.
type CheckoutService struct {
	carts           repository.CartRepository
	catalog         repository.CatalogRepository
	producer        *event.Producer
	logger          *slog.Logger
	httpClient      HTTPDoer
	orderServiceURL string
	feePolicy       domain.FeePolicy
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	carts repository.CartRepository,
	catalog repository.CatalogRepository,
	producer *event.Producer,
	logger *slog.Logger,
	httpClient HTTPDoer,
	orderServiceURL string,
	feePolicy domain.FeePolicy,
) *CheckoutService {
	return &CheckoutService{
		carts:           carts,
		catalog:         catalog,
		producer:        producer,
		logger:          logger,
		httpClient:      httpClient,
		orderServiceURL: orderServiceURL,
		feePolicy:       feePolicy,
	}
}

// Checkout validates the user's cart entries for the given restaurant,
// builds the order draft, and submits it to the order service. On success
// the checked-out entries are removed from the cart and order.placed is
// published. Validation failures surface as a 422 carrying the collected
// problem list; they are never raised mid-mutation.
func (s *CheckoutService) Checkout(ctx context.Context, userID string, input CheckoutInput) (*CheckoutResult, error) {
	if userID == "" {
		return nil, apperr.InvalidInput("user id is required")
	}
	if input.RestaurantID == "" {
		return nil, apperr.InvalidInput("restaurant id is required")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.CheckoutBlocked([]string{"cart is empty"})
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	entries := domain.ForRestaurant(cart.Entries, input.RestaurantID)
	entries = s.refreshAvailability(ctx, entries)

	if result := domain.ValidateForCheckout(entries); !result.Valid {
		return nil, apperr.CheckoutBlocked(result.Errors)
	}

	restaurant, err := s.catalog.GetRestaurant(ctx, input.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("resolve restaurant: %w", err)
	}

	draft := domain.BuildOrderDraft(userID, entries, *restaurant, s.feePolicy)

	orderID, err := s.submitOrder(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishOrderPlaced(ctx, orderID, draft); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.removeCheckedOutEntries(ctx, cart, entries)

	s.logger.InfoContext(ctx, "order placed",
		slog.String("user_id", userID),
		slog.String("order_id", orderID),
		slog.String("restaurant_id", draft.RestaurantID),
		slog.Int64("total", draft.Total),
	)

	return &CheckoutResult{OrderID: orderID, Draft: draft}, nil
}

// refreshAvailability re-resolves each entry's item against the catalog
// so checkout validation sees current availability, not the snapshot
// taken when the item was added. Items gone from the catalog count as
// unavailable.
func (s *CheckoutService) refreshAvailability(ctx context.Context, entries []domain.CartEntry) []domain.CartEntry {
	out := make([]domain.CartEntry, len(entries))
	copy(out, entries)
	for i := range out {
		item, err := s.catalog.GetMenuItem(ctx, out[i].Item.ID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			out[i].Item.IsAvailable = false
		case err != nil:
			s.logger.WarnContext(ctx, "availability refresh failed, using cart snapshot",
				slog.String("item_id", out[i].Item.ID),
				slog.String("error", err.Error()),
			)
		default:
			out[i].Item.IsAvailable = item.IsAvailable
		}
	}
	return out
}

// submitOrder POSTs the draft to the order service and reads back the
// order ID. A tripped circuit breaker maps to 503.
func (s *CheckoutService) submitOrder(ctx context.Context, draft domain.OrderDraft) (string, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return "", fmt.Errorf("marshal order draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.orderServiceURL+"/api/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return "", apperr.Unavailable("order service is temporarily unavailable, please retry")
		}
		return "", fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("order service returned %d: %s", resp.StatusCode, string(body))
	}

	var orderResp orderServiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	if orderResp.OrderID == "" {
		return "", fmt.Errorf("order service response missing order id")
	}
	return orderResp.OrderID, nil
}

// removeCheckedOutEntries drops the submitted entries from the cart. The
// order is already placed at this point, so failures are logged rather
// than surfaced.
func (s *CheckoutService) removeCheckedOutEntries(ctx context.Context, cart *domain.CartState, submitted []domain.CartEntry) {
	expectedVersion := cart.Version

	next := *cart
	for _, e := range submitted {
		next = domain.Reduce(next, domain.RemoveItem{EntryID: e.EntryID})
	}

	if len(next.Entries) == 0 {
		if err := s.carts.Delete(ctx, cart.UserID); err != nil {
			s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
				slog.String("user_id", cart.UserID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	ok, err := s.carts.SaveIfVersion(ctx, &next, expectedVersion)
	if err != nil || !ok {
		s.logger.ErrorContext(ctx, "failed to prune cart after checkout",
			slog.String("user_id", cart.UserID),
			slog.Bool("conflict", err == nil && !ok),
		)
	}
}
