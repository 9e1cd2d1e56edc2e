package persistence

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniorder/omniorder/internal/records"
	"github.com/omniorder/omniorder/internal/shared"
)

func newRedisPair(t *testing.T) (*RedisSlots, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rival := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		_ = rival.Close()
	})
	return NewRedisSlots(client, "test:"), rival
}

func TestRedisUpdateConflictExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	slots, rival := newRedisPair(t)

	calls := 0
	err := slots.Update(ctx, KeyDealers, func(current []byte, ok bool) ([]byte, error) {
		calls++
		require.NoError(t, rival.Set(ctx, "test:"+KeyDealers, fmt.Sprintf("[%d]", calls), 0).Err())
		return []byte("[]"), nil
	})

	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, maxWatchRetries, calls)

	payload, ok, err := slots.Get(ctx, KeyDealers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("[%d]", maxWatchRetries), string(payload))
}

func TestRedisUpdateRetriesAfterConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	slots, rival := newRedisPair(t)

	calls := 0
	err := slots.Update(ctx, KeyDealers, func(current []byte, ok bool) ([]byte, error) {
		calls++
		if calls == 1 {
			require.NoError(t, rival.Set(ctx, "test:"+KeyDealers, "[]", 0).Err())
			return []byte(`["lost"]`), nil
		}
		assert.True(t, ok)
		assert.Equal(t, "[]", string(current))
		return []byte(`["kept"]`), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	payload, _, err := slots.Get(ctx, KeyDealers)
	require.NoError(t, err)
	assert.Equal(t, `["kept"]`, string(payload))
}

type contendedSlots struct {
	*RedisSlots
	rival *redis.Client
}

func (c contendedSlots) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return c.RedisSlots.Update(ctx, key, func(current []byte, ok bool) ([]byte, error) {
		if err := c.rival.Set(ctx, c.key(key), "[]", 0).Err(); err != nil {
			return nil, err
		}
		return fn(current, ok)
	})
}

func TestCollectionUpsertSurfacesConflict(t *testing.T) {
	ctx := context.Background()
	slots, rival := newRedisPair(t)
	col := dealers(contendedSlots{RedisSlots: slots, rival: rival})

	err := col.Upsert(ctx, records.SeedDealers()[0])

	require.ErrorIs(t, err, shared.ErrConflict)
	assert.NotErrorIs(t, err, shared.ErrUnavailable)
}
