package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyHeader carries a client key that makes a checkout run at most once.
const IdempotencyHeader = "Idempotency-Key"

// Guard claims idempotency keys. Claim reports false when the key was seen
// before.
type Guard interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// RedisGuard remembers keys in Redis for a fixed time.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, "qrmenu:checkout:"+key, "claimed", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim idempotency key: %w", err)
	}
	return ok, nil
}

// NoGuard accepts every key.
type NoGuard struct{}

func (NoGuard) Claim(context.Context, string) (bool, error) { return true, nil }
