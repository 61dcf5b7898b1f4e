package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dee-Rock/soucey/internal/core/domain"
)

const (
	cartKeyPrefix = "cart:"

	// abandoned carts expire on their own
	cartTTL = 7 * 24 * time.Hour
)

// RedisAdapter persists one JSON cart per session under a fixed key
// prefix. Each Save replaces the whole value, so a reload reconstructs
// exactly what was last written.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Save(ctx context.Context, sessionID string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return r.client.Set(ctx, cartKeyPrefix+sessionID, data, cartTTL).Err()
}

func (r *RedisAdapter) Load(ctx context.Context, sessionID string) (domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("unmarshal cart: %w", err)
	}
	return cart, nil
}

func (r *RedisAdapter) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, cartKeyPrefix+sessionID).Err()
}
