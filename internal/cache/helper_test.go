package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, "thing:1", &cachedThing{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "thing:1", cachedThing{ID: 1, Name: "Whiskers"}, time.Minute))

	var got cachedThing
	found, err = GetJSON(ctx, "thing:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Whiskers", got.Name)
}

func TestAsideFetchesOnMissAndCaches(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			calls++
			*dest = cachedThing{ID: 1, Name: "Whiskers"}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, "thing:1", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Whiskers", first.Name)

	// Second read is served from the cache.
	var second cachedThing
	require.NoError(t, Aside(ctx, "thing:1", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "Whiskers", second.Name)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	setupMiniredis(t)

	wantErr := assert.AnError
	var dest cachedThing
	err := Aside(context.Background(), "thing:1", &dest, time.Minute, func() error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestInvalidate(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(7), cachedThing{ID: 7}, time.Minute))
	require.True(t, mr.Exists("user:7"))

	InvalidateUser(ctx, 7)
	assert.False(t, mr.Exists("user:7"))
}

func TestHelpersAreNoOpsWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, "k", &cachedThing{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", cachedThing{}, time.Minute))
	Invalidate(ctx, "k")

	// Aside degrades to a plain fetch.
	var dest cachedThing
	require.NoError(t, Aside(ctx, "k", &dest, time.Minute, func() error {
		dest.Name = "fetched"
		return nil
	}))
	assert.Equal(t, "fetched", dest.Name)
}
