package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/omniorder/omniorder/internal/shared"
)

const (
	defaultRedisPrefix = "omniorder:"
	maxWatchRetries    = 5
)

// RedisSlots stores each slot as a string value. Update uses WATCH/MULTI so
// concurrent writers from other processes retry instead of clobbering.
type RedisSlots struct {
	client *redis.Client
	prefix string
}

var _ Slots = (*RedisSlots)(nil)

// NewRedisSlots wraps client. An empty prefix defaults to "omniorder:".
func NewRedisSlots(client *redis.Client, prefix string) *RedisSlots {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisSlots{client: client, prefix: prefix}
}

func (r *RedisSlots) key(key string) string { return r.prefix + key }

func (r *RedisSlots) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (r *RedisSlots) Put(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, r.key(key), payload, 0).Err()
}

func (r *RedisSlots) Update(ctx context.Context, key string, fn UpdateFunc) error {
	full := r.key(key)
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, full).Bytes()
		ok := true
		if errors.Is(err, redis.Nil) {
			ok, err = false, nil
		}
		if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, full, next, 0)
			return nil
		})
		return err
	}
	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := r.client.Watch(ctx, txf, full)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, errSkipWrite) {
			return nil
		}
		return err
	}
	return fmt.Errorf("persistence: update %s: %w", key, shared.ErrConflict)
}

func (r *RedisSlots) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *RedisSlots) Close() error { return r.client.Close() }
