package override

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultRedisPrefix namespaces override keys in a shared Redis.
const DefaultRedisPrefix = "qrmenu:override:"

// RedisStore keeps overrides in Redis so every API replica sees the same
// device-local values.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption customises a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix. Default is DefaultRedisPrefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithTTL expires overrides after ttl. Zero, the default, keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// NewRedisStore creates a Redis-backed override store.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(device, entityType, entityID, field string) string {
	return fmt.Sprintf("%s%s:%s", s.prefix, device, Key(entityType, entityID, field))
}

func (s *RedisStore) Save(ctx context.Context, device, entityType, entityID string, values Set) error {
	if len(values) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	for field, value := range values {
		pipe.Set(ctx, s.key(device, entityType, entityID, field), value, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("override save: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, device, entityType, entityID string, fields ...string) (Set, error) {
	set := make(Set, len(fields))
	if len(fields) == 0 {
		return set, nil
	}
	keys := make([]string, len(fields))
	for i, field := range fields {
		keys[i] = s.key(device, entityType, entityID, field)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("override load: %w", err)
	}
	for i, v := range vals {
		if str, ok := v.(string); ok {
			set[fields[i]] = str
		}
	}
	return set, nil
}
