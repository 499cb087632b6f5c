package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	pkgkafka "github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/kafka"
)

// Kafka topics for cart and order domain events.
const (
	TopicCartUpdated = "sera.cart.updated"
	TopicCartCleared = "sera.cart.cleared"
	TopicOrderPlaced = "sera.order.placed"
)

const (
	aggregateCart  = "cart"
	aggregateOrder = "order"
	source         = "cart-service"
)

// CartUpdatedData is the payload of a cart.updated event.
type CartUpdatedData struct {
	UserID      string             `json:"user_id"`
	Entries     []domain.CartEntry `json:"entries"`
	TotalItems  int                `json:"total_items"`
	TotalAmount int64              `json:"total_amount"`
}

// CartClearedData is the payload of a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// OrderPlacedData is the payload of an order.placed event.
type OrderPlacedData struct {
	OrderID string            `json:"order_id"`
	Draft   domain.OrderDraft `json:"draft"`
}

// Producer publishes cart and order domain events.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishCartUpdated publishes a cart.updated event keyed by user.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.CartState) error {
	data := CartUpdatedData{
		UserID:      cart.UserID,
		Entries:     cart.Entries,
		TotalItems:  cart.TotalItems,
		TotalAmount: cart.TotalAmount,
	}

	ev, err := pkgkafka.NewEvent(TopicCartUpdated, cart.UserID, aggregateCart, source, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicCartUpdated, ev); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("user_id", cart.UserID),
		slog.Int("total_items", cart.TotalItems),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	ev, err := pkgkafka.NewEvent(TopicCartCleared, userID, aggregateCart, source, CartClearedData{UserID: userID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicCartCleared, ev); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event", slog.String("user_id", userID))
	return nil
}

// PublishOrderPlaced publishes an order.placed event keyed by order.
func (p *Producer) PublishOrderPlaced(ctx context.Context, orderID string, draft domain.OrderDraft) error {
	ev, err := pkgkafka.NewEvent(TopicOrderPlaced, orderID, aggregateOrder, source, OrderPlacedData{OrderID: orderID, Draft: draft})
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicOrderPlaced, ev); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", orderID),
		slog.String("user_id", draft.UserID),
	)
	return nil
}
