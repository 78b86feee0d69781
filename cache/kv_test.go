package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedKVIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryKV()

	alice := NewScopedKV(backing, "user:a:")
	bob := NewScopedKV(backing, "user:b:")

	require.NoError(t, alice.Set(ctx, "wishlist", "[1]"))
	require.NoError(t, bob.Set(ctx, "wishlist", "[2]"))

	got, ok, err := alice.Get(ctx, "wishlist")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[1]", got)

	// Backing store holds the full scoped keys.
	raw, ok, _ := backing.Get(ctx, "user:b:wishlist")
	require.True(t, ok)
	assert.Equal(t, "[2]", raw)
}

func TestScopedKVKeysStripScope(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryKV()
	scoped := NewScopedKV(backing, "user:a:")

	require.NoError(t, scoped.Set(ctx, "draft:1", "x"))
	require.NoError(t, scoped.Set(ctx, "draft:2", "y"))
	require.NoError(t, backing.Set(ctx, "user:b:draft:3", "z"))

	keys, err := scoped.Keys(ctx, "draft:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"draft:1", "draft:2"}, keys)
}

func TestScopedKVDel(t *testing.T) {
	ctx := context.Background()
	backing := NewMemoryKV()
	scoped := NewScopedKV(backing, "user:a:")

	require.NoError(t, scoped.Set(ctx, "filters", "{}"))
	require.NoError(t, scoped.Del(ctx, "filters"))

	_, ok, err := scoped.Get(ctx, "filters")
	require.NoError(t, err)
	assert.False(t, ok)
}
