package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client)
}

func TestRedisLoadAbsent(t *testing.T) {
	st := newRedisStore(t)

	var doc fixtureDoc
	found, err := st.Load(context.Background(), CollectionInventory, &doc)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisSaveLoadRoundTrip(t *testing.T) {
	st := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, CollectionInventory, fixtureDoc{Name: "runner", Count: 7}))

	var doc fixtureDoc
	found, err := st.Load(ctx, CollectionInventory, &doc)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "runner", doc.Name)
	require.Equal(t, 7, doc.Count)
}

func TestRedisDelete(t *testing.T) {
	st := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, CollectionOrders, fixtureDoc{Count: 4}))
	require.NoError(t, st.Delete(ctx, CollectionOrders))

	var doc fixtureDoc
	found, err := st.Load(ctx, CollectionOrders, &doc)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisUnavailableWrapsSentinel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	st := NewRedis(client)
	mr.Close()

	var doc fixtureDoc
	_, err := st.Load(context.Background(), CollectionInventory, &doc)
	require.ErrorIs(t, err, ErrUnavailable)
}
