package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_SetGet(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	require.NoError(t, adapter.Set(ctx, "search:result:q=bob", []byte(`{"total":3}`), 60))

	value, err := adapter.Get(ctx, "search:result:q=bob")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"total":3}`), value)

	exists, err := adapter.Exists(ctx, "search:result:q=bob")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryAdapter_GetMissing(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	_, err := adapter.Get(ctx, "nope")
	assert.Error(t, err)

	exists, err := adapter.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	adapter := &MemoryAdapter{entries: make(map[string]memoryEntry)}

	require.NoError(t, adapter.Set(ctx, "ephemeral", []byte("v"), 60))

	// Force the entry into the past instead of sleeping
	adapter.mu.Lock()
	entry := adapter.entries["ephemeral"]
	entry.expiresAt = time.Now().Add(-time.Second)
	adapter.entries["ephemeral"] = entry
	adapter.mu.Unlock()

	_, err := adapter.Get(ctx, "ephemeral")
	assert.Error(t, err)

	// Lazy eviction removed the entry
	adapter.mu.Lock()
	_, ok := adapter.entries["ephemeral"]
	adapter.mu.Unlock()
	assert.False(t, ok)
}

func TestMemoryAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 60))
	require.NoError(t, adapter.Delete(ctx, "k"))

	_, err := adapter.Get(ctx, "k")
	assert.Error(t, err)
}

func TestMemoryAdapter_DeletePattern(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	require.NoError(t, adapter.Set(ctx, "search:result:q=bob", []byte("1"), 60))
	require.NoError(t, adapter.Set(ctx, "search:result:q=perm", []byte("2"), 60))
	require.NoError(t, adapter.Set(ctx, "other:key", []byte("3"), 60))

	require.NoError(t, adapter.DeletePattern(ctx, "search:result:*"))

	_, err := adapter.Get(ctx, "search:result:q=bob")
	assert.Error(t, err)
	_, err = adapter.Get(ctx, "search:result:q=perm")
	assert.Error(t, err)

	value, err := adapter.Get(ctx, "other:key")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), value)
}

func TestMemoryAdapter_DeletePatternWildcardOnly(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	require.NoError(t, adapter.Set(ctx, "a", []byte("1"), 60))
	require.NoError(t, adapter.Set(ctx, "b", []byte("2"), 60))

	require.NoError(t, adapter.DeletePattern(ctx, "*"))

	_, err := adapter.Get(ctx, "a")
	assert.Error(t, err)
	_, err = adapter.Get(ctx, "b")
	assert.Error(t, err)
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		key     string
		pattern string
		want    bool
	}{
		{"search:result:q=bob", "search:result:*", true},
		{"search:result:q=bob", "*q=bob*", true},
		{"search:result:q=bob", "*q=perm*", false},
		{"search:result:q=bob", "search:*:q=bob", true},
		{"other:key", "search:result:*", false},
		{"anything", "*", true},
		{"exact", "exact", true},
		{"exact-no", "exact", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchPattern(tt.key, tt.pattern), "key=%s pattern=%s", tt.key, tt.pattern)
	}
}
