package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sellora/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisStore implements Store on a single Redis key per user holding the
// cart as a JSON document. The TTL lets abandoned carts age out.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a Redis-backed cart store.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

// Get fetches the user's cart.
func (s *redisStore) Get(ctx context.Context, userID string) (*model.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to decode cart")
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return &cart, nil
}

// Save overwrites the user's cart and refreshes its TTL.
func (s *redisStore) Save(ctx context.Context, cart *model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(cart.UserID), data, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("user_id", cart.UserID).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// Delete removes the user's cart.
func (s *redisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
