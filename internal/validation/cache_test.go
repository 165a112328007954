package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
)

func okResult() domain.ValidationResult {
	return domain.ValidationResult{
		Severity:  domain.SeveritySuccess,
		Valid:     true,
		Conflicts: []domain.Conflict{},
		Warnings:  []domain.Warning{},
	}
}

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	_, ok := store.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k1", okResult()))
	got, ok := store.Get(ctx, "k1")
	require.True(t, ok)
	assert.True(t, got.Valid)
	assert.Equal(t, domain.SeveritySuccess, got.Severity)
}

func TestMemoryStore_ExpiryIsLazy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	current := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "k1", okResult()))

	// Just under the TTL: still served.
	current = current.Add(59 * time.Second)
	_, ok := store.Get(ctx, "k1")
	assert.True(t, ok)

	// At the TTL boundary: behaves as a miss and is evicted on access.
	current = current.Add(time.Second)
	_, ok = store.Get(ctx, "k1")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	require.NoError(t, store.Set(ctx, "k1", okResult()))
	require.NoError(t, store.Set(ctx, "k2", okResult()))
	require.Equal(t, 2, store.Len())

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 0, store.Len())
	_, ok := store.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestNewMemoryStore_DefaultTTL(t *testing.T) {
	store := NewMemoryStore(0)
	assert.Equal(t, DefaultCacheTTL, store.ttl)
}
