package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/craftline/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStorage instance
func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStorage(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestCartRoundTrip(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "session-123"

	lines := []domain.CartLine{
		{ProductID: "P1", Name: "Linen Throw", UnitPrice: 49, Quantity: 2, Color: "Natural", Size: "One Size", ImageURL: "/images/linen-throw.jpg", Description: "Hand-woven"},
		{ProductID: "P1", Name: "Linen Throw", UnitPrice: 49, Quantity: 1, Color: "Charcoal", Size: "One Size"},
	}

	require.NoError(t, store.SaveCart(ctx, sessionID, lines))

	// Serialize then deserialize must reproduce an equal sequence of
	// lines: the cart survives a reload.
	loaded, err := store.LoadCart(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, lines, loaded)
}

func TestWishlistRoundTrip(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "session-123"

	entries := []domain.WishEntry{
		{ProductID: "W1", Name: "Vase", Price: 20, ImageURL: "/images/vase.jpg"},
		{ProductID: "W2", Name: "Tray", Price: 55},
	}

	require.NoError(t, store.SaveWishlist(ctx, sessionID, entries))

	loaded, err := store.LoadWishlist(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestLoadCart_MissingSession(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := store.LoadCart(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadWishlist_MissingSession(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := store.LoadWishlist(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveCart_NilBecomesEmptyArray(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.SaveCart(ctx, "session-123", nil))

	raw, err := mr.Get("cart:session-123")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", raw)

	loaded, err := store.LoadCart(ctx, "session-123")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadCart_StorageFormat(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	// The stored value is a plain JSON array of flat objects.
	lines := []domain.CartLine{{ProductID: "P1", Quantity: 1, Color: "Red", Size: "M"}}
	data, err := json.Marshal(lines)
	require.NoError(t, err)
	mr.Set("cart:session-123", string(data))

	loaded, err := store.LoadCart(context.Background(), "session-123")
	require.NoError(t, err)
	assert.Equal(t, lines, loaded)
}

func TestLoadCart_CorruptPayload(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set("cart:session-123", "{not json")

	_, err := store.LoadCart(context.Background(), "session-123")
	assert.Error(t, err)
}
