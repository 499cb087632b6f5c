package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/event"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/repository"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/apperr"
)

// Cart upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerEntry is the maximum quantity for a single cart entry.
	MaxQuantityPerEntry = 100
	// MaxEntriesPerCart is the maximum number of distinct entries in a cart.
	MaxEntriesPerCart = 50
)

// AddItemInput holds the parameters for adding a menu item to the cart.
// The item itself is resolved from the catalog by ID.
type AddItemInput struct {
	ItemID        string                `json:"item_id" validate:"required"`
	Quantity      int                   `json:"quantity" validate:"required,gte=1"`
	Customization *domain.Customization `json:"customization,omitempty"`
}

// CartService owns cart state transitions. Every mutation flows through
// the domain reducer and is persisted with an optimistic versioned save.
type CartService struct {
	carts    repository.CartRepository
	catalog  repository.CatalogRepository
	producer *event.Producer
	logger   *slog.Logger
	cartTTL  time.Duration
}

// NewCartService creates a cart service.
func NewCartService(
	carts repository.CartRepository,
	catalog repository.CatalogRepository,
	producer *event.Producer,
	logger *slog.Logger,
	cartTTL time.Duration,
) *CartService {
	return &CartService{
		carts:    carts,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
		cartTTL:  cartTTL,
	}
}

// GetCart retrieves the user's cart, returning a fresh empty cart when
// none exists yet.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.CartState, error) {
	if userID == "" {
		return nil, apperr.InvalidInput("user id is required")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return s.newEmptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddItem resolves the menu item from the catalog and adds it to the
// user's cart. Entries with the same item and field-wise equal
// customization merge; a different customization forms a distinct entry.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddItemInput) (*domain.CartState, error) {
	if userID == "" {
		return nil, apperr.InvalidInput("user id is required")
	}
	if input.ItemID == "" {
		return nil, apperr.InvalidInput("item id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperr.InvalidInput("quantity must be greater than 0")
	}
	if input.Quantity > MaxQuantityPerEntry {
		return nil, apperr.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerEntry))
	}

	item, err := s.catalog.GetMenuItem(ctx, input.ItemID)
	if err != nil {
		return nil, fmt.Errorf("resolve menu item: %w", err)
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	expectedVersion := cart.Version

	entryID := domain.EntryID(item.ID, input.Customization)
	if _, exists := domain.Find(cart.Entries, entryID); !exists && len(cart.Entries) >= MaxEntriesPerCart {
		return nil, apperr.InvalidInput(fmt.Sprintf("cart must not contain more than %d entries", MaxEntriesPerCart))
	}

	next := domain.Reduce(*cart, domain.AddItem{
		Item:          *item,
		Quantity:      input.Quantity,
		Customization: input.Customization,
	})
	if domain.QuantityOf(next.Entries, entryID) > MaxQuantityPerEntry {
		return nil, apperr.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerEntry))
	}

	saved, err := s.save(ctx, &next, expectedVersion)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.String("item_id", item.ID),
		slog.String("entry_id", entryID),
		slog.Int("quantity", input.Quantity),
	)
	return saved, nil
}

// UpdateQuantity replaces an entry's quantity; zero or less removes the
// entry. An unknown entry ID is absorbed as a no-op and the unchanged
// cart is returned.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, entryID string, quantity int) (*domain.CartState, error) {
	if userID == "" {
		return nil, apperr.InvalidInput("user id is required")
	}
	if entryID == "" {
		return nil, apperr.InvalidInput("entry id is required")
	}
	if quantity > MaxQuantityPerEntry {
		return nil, apperr.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerEntry))
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, exists := domain.Find(cart.Entries, entryID); !exists {
		return cart, nil
	}
	expectedVersion := cart.Version

	next := domain.Reduce(*cart, domain.UpdateQuantity{EntryID: entryID, Quantity: quantity})

	saved, err := s.save(ctx, &next, expectedVersion)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart entry quantity updated",
		slog.String("user_id", userID),
		slog.String("entry_id", entryID),
		slog.Int("quantity", quantity),
	)
	return saved, nil
}

// RemoveItem drops an entry from the cart. An unknown entry ID is a
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, entryID string) (*domain.CartState, error) {
	if userID == "" {
		return nil, apperr.InvalidInput("user id is required")
	}
	if entryID == "" {
		return nil, apperr.InvalidInput("entry id is required")
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, exists := domain.Find(cart.Entries, entryID); !exists {
		return cart, nil
	}
	expectedVersion := cart.Version

	next := domain.Reduce(*cart, domain.RemoveItem{EntryID: entryID})

	saved, err := s.save(ctx, &next, expectedVersion)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "entry removed from cart",
		slog.String("user_id", userID),
		slog.String("entry_id", entryID),
	)
	return saved, nil
}

// ClearCart removes the user's cart entirely.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.InvalidInput("user id is required")
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID))
	return nil
}

// save persists the cart with optimistic locking, refreshes timestamps,
// and publishes cart.updated. Event publish failures are logged, not
// propagated.
func (s *CartService) save(ctx context.Context, cart *domain.CartState, expectedVersion int) (*domain.CartState, error) {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	ok, err := s.carts.SaveIfVersion(ctx, cart, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		return nil, apperr.Conflict("cart was modified concurrently, please retry")
	}

	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
	return cart, nil
}

func (s *CartService) getOrCreateCart(ctx context.Context, userID string) (*domain.CartState, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return s.newEmptyCart(userID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) newEmptyCart(userID string) *domain.CartState {
	now := time.Now().UTC()
	return &domain.CartState{
		ID:        uuid.New().String(),
		UserID:    userID,
		Entries:   []domain.CartEntry{},
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
