package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exchange-rate-cache/pkg/logger"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "exr:", logger.NewNop())
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, DefaultKey, []byte("payload")))

	raw, err := mr.Get("exr:" + DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "payload", raw)

	value, found, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), value)

	require.NoError(t, store.Delete(ctx, DefaultKey))
	assert.False(t, mr.Exists("exr:"+DefaultKey))
}

func TestRedisStore_ServerDownIsError(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, found, err := store.Get(context.Background(), DefaultKey)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisStore_BacksRateStore(t *testing.T) {
	store, _ := newTestRedisStore(t)
	rates := NewRateStore(store, "", logger.NewNop(), nil)
	ctx := context.Background()
	validUntil := time.Now().Add(time.Hour)

	require.NoError(t, rates.Save(ctx, sampleSet(validUntil)))

	got, ok := rates.Load(ctx)
	require.True(t, ok)
	assert.True(t, validUntil.Equal(got.ValidUntil))
}

func TestNewRedisStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStoreFromURL("redis://"+mr.Addr()+"/0", "", logger.NewNop())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Set(context.Background(), "k", []byte("v")))
	assert.True(t, mr.Exists("k"))

	_, err = NewRedisStoreFromURL("://nope", "", logger.NewNop())
	assert.Error(t, err)
}
