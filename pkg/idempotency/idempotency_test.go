package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetAndExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	resp := Response{Status: 201, ContentType: "application/json", Body: []byte(`{"success":true}`)}
	require.NoError(t, store.Set(ctx, "k1", resp, time.Minute))

	got, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp, *got)

	now = now.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisStore_RejectsBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRedisStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	store := NewRedisStoreFromClient(client)
	defer store.Close()

	_, _, err := store.Get(context.Background(), "k1")
	assert.Error(t, err)
}
