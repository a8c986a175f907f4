package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cutmatch/cutmatch-backend/internal/domain/providers"
)

// MemoryAdapter implements the CacheProvider interface with an in-process
// map. It is the default when Redis is not configured; the reference
// deployment is single-process and memory-resident. Stale entries are
// treated as misses and evicted lazily on access.
type MemoryAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryAdapter creates an empty in-memory cache
func NewMemoryAdapter() providers.CacheProvider {
	return &MemoryAdapter{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if time.Now().After(entry.expiresAt) {
		delete(a.entries, key)
		return nil, fmt.Errorf("key not found: %s", key)
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries[key] = memoryEntry{
		value:     stored,
		expiresAt: time.Now().Add(time.Duration(expirationSeconds) * time.Second),
	}
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.entries, key)
	return nil
}

// DeletePattern removes every key matching a glob-style pattern. Only the
// `*` wildcard is supported, which covers the patterns the invalidation
// service emits.
func (a *MemoryAdapter) DeletePattern(ctx context.Context, pattern string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key := range a.entries {
		if matchPattern(key, pattern) {
			delete(a.entries, key)
		}
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(a.entries, key)
		return false, nil
	}
	return true, nil
}

// matchPattern matches a key against a glob pattern where `*` matches any
// run of characters. The non-wildcard segments must appear in order, with
// the first and last anchored unless the pattern starts/ends with `*`.
func matchPattern(key, pattern string) bool {
	if pattern == "*" || pattern == "" {
		return true
	}

	parts := strings.Split(pattern, "*")
	anchoredEnd := !strings.HasSuffix(pattern, "*")

	if !strings.HasPrefix(pattern, "*") {
		if !strings.HasPrefix(key, parts[0]) {
			return false
		}
		key = key[len(parts[0]):]
		parts = parts[1:]
		if len(parts) == 0 {
			return !anchoredEnd || key == ""
		}
	}
	for i, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(key, part)
		if idx < 0 {
			return false
		}
		if anchoredEnd && i == len(parts)-1 {
			return strings.HasSuffix(key, part)
		}
		key = key[idx+len(part):]
	}
	return true
}
