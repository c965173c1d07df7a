package journal

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klend-client-sol/internal/logic/submitter"
	"klend-client-sol/internal/pkg/errs"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisJournalStore(t *testing.T) {
	rdb := newTestRedis(t)
	store := NewRedisJournalStore(rdb, time.Minute)
	ctx := context.Background()

	s := sig(0xAB)
	t.Cleanup(func() { rdb.Del(context.Background(), store.getKey(s)) })

	missing, err := store.Get(ctx, s)
	require.NoError(t, err)
	assert.Nil(t, missing)

	now := time.UnixMilli(time.Now().UnixMilli())
	require.NoError(t, store.Put(ctx, &Entry{
		Signature: s, Name: "repay", State: submitter.StateSent, Attempts: 2, Slot: 99, UpdatedAt: now,
	}))

	got, err := store.Get(ctx, s)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "repay", got.Name)
	assert.Equal(t, submitter.StateSent, got.State)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, uint64(99), got.Slot)
	assert.True(t, now.Equal(got.UpdatedAt))

	ttl, err := rdb.TTL(ctx, store.getKey(s)).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestEntryFromHash(t *testing.T) {
	fields := map[string]string{
		"name":       "borrow",
		"state":      "confirmed",
		"attempts":   "1",
		"slot":       "1234",
		"reason":     "",
		"updated_at": "1700000000123",
	}
	e, err := entryFromHash(sig(0x01), fields)
	require.NoError(t, err)
	assert.Equal(t, submitter.StateConfirmed, e.State)
	assert.Equal(t, 1, e.Attempts)
	assert.Equal(t, uint64(1234), e.Slot)
	assert.Equal(t, int64(1700000000123), e.UpdatedAt.UnixMilli())

	for _, field := range []string{"attempts", "slot", "updated_at"} {
		bad := make(map[string]string, len(fields))
		for k, v := range fields {
			bad[k] = v
		}
		bad[field] = "x1"
		_, err := entryFromHash(sig(0x01), bad)
		assert.ErrorIs(t, err, errs.ErrDecode, field)
		assert.ErrorContains(t, err, field)
	}
}

func TestRedisJournalStoreCorruptedEntry(t *testing.T) {
	rdb := newTestRedis(t)
	store := NewRedisJournalStore(rdb, time.Minute)
	ctx := context.Background()

	s := sig(0xAC)
	t.Cleanup(func() { rdb.Del(context.Background(), store.getKey(s)) })

	require.NoError(t, store.Put(ctx, &Entry{
		Signature: s, Name: "repay", State: submitter.StateSent, Attempts: 1, UpdatedAt: time.Now(),
	}))
	require.NoError(t, rdb.HSet(ctx, store.getKey(s), "attempts", "many").Err())

	got, err := store.Get(ctx, s)
	assert.ErrorIs(t, err, errs.ErrDecode)
	assert.Nil(t, got)
}
