package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/pkg/kvstore"
)

func newTestClient(t *testing.T, ttl time.Duration) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClient(rdb, ttl), mr
}

func TestClient_ImplementsStore(t *testing.T) {
	var _ kvstore.Store = (*Client)(nil)
}

func TestClient_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t, time.Hour)

	_, err := client.Get(ctx, "cart:session:abc")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, client.Set(ctx, "cart:session:abc", []byte(`[{"variantId":"v1"}]`)))

	value, err := client.Get(ctx, "cart:session:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"variantId":"v1"}]`, string(value))
	assert.Equal(t, time.Hour, mr.TTL("cart:session:abc"))

	require.NoError(t, client.Delete(ctx, "cart:session:abc"))
	require.NoError(t, client.Delete(ctx, "cart:session:abc"))
	_, err = client.Get(ctx, "cart:session:abc")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestClient_KeysExpire(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t, time.Minute)

	require.NoError(t, client.Set(ctx, "wishlist:session:abc", []byte(`["p1"]`)))
	mr.FastForward(2 * time.Minute)

	_, err := client.Get(ctx, "wishlist:session:abc")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestClient_ZeroTTLKeepsKeys(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t, 0)

	require.NoError(t, client.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestClient_Increment(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t, 0)

	for want := int64(1); want <= 3; want++ {
		got, err := client.Increment(ctx, "rate_limit:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, time.Minute, mr.TTL("rate_limit:10.0.0.1"))

	mr.FastForward(time.Minute + time.Second)
	got, err := client.Increment(ctx, "rate_limit:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestClient_ErrorsAreWrapped(t *testing.T) {
	client, mr := newTestClient(t, 0)
	mr.Close()

	_, err := client.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, kvstore.ErrNotFound)
	assert.Error(t, client.Health(context.Background()))
}
