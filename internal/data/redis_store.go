package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/paymentd/internal/core"
)

// RedisEventDedup is a Redis-backed EventDedup set. SET NX gives the
// check-and-record step its atomicity across processes.
type RedisEventDedup struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisEventDedup creates a dedup set with the default key prefix.
func NewRedisEventDedup(client redis.UniversalClient) *RedisEventDedup {
	return &RedisEventDedup{client: client, prefix: "event:"}
}

// MarkSeen records eventID and reports whether this is its first observation.
// Entries are kept for the lifetime of the Redis keyspace (no TTL).
func (d *RedisEventDedup) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id cannot be empty")
	}

	first, err := d.client.SetNX(ctx, d.prefix+eventID, "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return first, nil
}

// RedisIdempotencyIndex is a Redis-backed IdempotencyIndex using SET NX for
// the put-if-absent binding.
type RedisIdempotencyIndex struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisIdempotencyIndex creates an index with the default key prefix.
func NewRedisIdempotencyIndex(client redis.UniversalClient) *RedisIdempotencyIndex {
	return &RedisIdempotencyIndex{client: client, prefix: "idem:"}
}

// Bind binds key to paymentID unless already bound; a losing writer reads
// back the winner's id.
func (i *RedisIdempotencyIndex) Bind(ctx context.Context, key, paymentID string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("key cannot be empty")
	}

	created, err := i.client.SetNX(ctx, i.prefix+key, paymentID, 0).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx: %w", err)
	}
	if created {
		return paymentID, true, nil
	}

	existing, err := i.client.Get(ctx, i.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, fmt.Errorf("idempotency key %q vanished after conflict", key)
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return existing, false, nil
}

// Lookup returns the payment id bound to key, if any.
func (i *RedisIdempotencyIndex) Lookup(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("key cannot be empty")
	}

	id, err := i.client.Get(ctx, i.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return id, true, nil
}

var (
	_ core.EventDedup       = (*RedisEventDedup)(nil)
	_ core.IdempotencyIndex = (*RedisIdempotencyIndex)(nil)
)
