package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", item{Name: "a", N: 1}, 0))

	var got item
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, item{Name: "a", N: 1}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	ok, _ = c.Get(ctx, "k", &got)
	assert.False(t, ok)
}

func TestInMemoryCache_Expira(t *testing.T) {
	c := NewInMemoryCache(time.Minute, 0)
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "corta", 1, 5))
	require.NoError(t, c.Set(ctx, "larga", 1, 0))

	now = now.Add(10 * time.Second)
	var v int
	ok, _ := c.Get(ctx, "corta", &v)
	assert.False(t, ok, "ttl de 5s expirado")
	ok, _ = c.Get(ctx, "larga", &v)
	assert.True(t, ok, "ttl por defecto de 1m")

	c.evictExpired()
	assert.Equal(t, 1, c.Len())
}

func TestInMemoryCache_StopIdempotente(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Millisecond)

	assert.NotPanics(t, func() {
		c.Stop()
		c.Stop()
	})
}
