package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/cart/domain"
	"github.com/redis/go-redis/v9"
)

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client}
}

// RedisStorage keeps each cart as a JSON array of lines under a single
// well-known key per visitor session.
type RedisStorage struct {
	client *redis.Client
}

func (r *RedisStorage) Load(ctx context.Context, cartID string) ([]domain.Line, error) {
	data, err := r.client.Get(ctx, cartKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var lines []domain.Line
	if err2 := json.Unmarshal(data, &lines); err2 != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartCorrupt, err2)
	}

	return lines, nil
}

func (r *RedisStorage) Save(ctx context.Context, cartID string, lines []domain.Line) error {
	if lines == nil {
		lines = []domain.Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// No TTL: the cart must survive until the visitor clears it or completes
	// an order.
	if err := r.client.Set(ctx, cartKey(cartID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, cartID string) error {
	if err := r.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartKey(cartID string) string {
	return fmt.Sprintf("cart:%s", cartID)
}
