package redisx

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rjcreations/internal/domain"
)

func setupTestRedis(t *testing.T) (*IntentStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIntentStore(client), mr
}

func TestIntentStore_Miss(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.GetIntent(context.Background(), "sess-1", "1:1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntentStore_RoundTripAndTTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()
	in := domain.PaymentIntent{OrderID: "order_abc", Amount: 5198, Currency: "INR", AutoCapture: true}

	require.NoError(t, store.PutIntent(ctx, "sess-1", "1:2,2:1", in))

	got, err := store.GetIntent(ctx, "sess-1", "1:2,2:1")
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.Equal(t, TTLCheckoutIntent, mr.TTL(fmt.Sprintf(KeyCheckoutIntent, "sess-1")))

	mr.FastForward(TTLCheckoutIntent + 1)
	_, err = store.GetIntent(ctx, "sess-1", "1:2,2:1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntentStore_FingerprintChangeIsMiss(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.PutIntent(ctx, "sess-1", "1:1", domain.PaymentIntent{OrderID: "order_a"}))
	_, err := store.GetIntent(ctx, "sess-1", "1:2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntentStore_RedisDown(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	_, err := store.GetIntent(context.Background(), "sess-1", "1:1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
