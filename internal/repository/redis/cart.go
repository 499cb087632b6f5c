package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/domain"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/apperr"
)

const keyPrefix = "cart:"

var errVersionConflict = errors.New("cart version conflict")

// CartRepository stores cart state in Redis, one JSON document per user,
// expiring after the configured TTL.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

// Get retrieves a cart by user ID.
func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.CartState, error) {
	data, err := r.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("cart", userID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.CartState
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &cart, nil
}

// SaveIfVersion persists the cart under WATCH so a concurrent write to the
// same key aborts the transaction. The stored version must equal
// expectedVersion (0 when the key does not exist yet); on success the
// cart's version is bumped to expectedVersion+1.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.CartState, expectedVersion int) (bool, error) {
	key := keyPrefix + cart.UserID

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expectedVersion != 0 {
				return errVersionConflict
			}
		case err != nil:
			return fmt.Errorf("redis get cart: %w", err)
		default:
			var stored domain.CartState
			if err := json.Unmarshal(data, &stored); err != nil {
				return fmt.Errorf("unmarshal stored cart: %w", err)
			}
			if stored.Version != expectedVersion {
				return errVersionConflict
			}
		}

		next := *cart
		next.Version = expectedVersion + 1
		payload, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		return err
	}, key)

	switch {
	case errors.Is(err, errVersionConflict), errors.Is(err, redis.TxFailedErr):
		return false, nil
	case err != nil:
		return false, err
	}

	cart.Version = expectedVersion + 1
	return true, nil
}

// Delete removes the cart for a user.
func (r *CartRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
