package validation

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/rosterkit/internal/schedule/domain"
)

// DefaultCacheTTL is the lifetime of a cached validation result when none
// is configured.
const DefaultCacheTTL = 60 * time.Second

// ResultStore is the key/value store backing the validation result cache.
// Keys are request fingerprints.
type ResultStore interface {
	// Get returns the stored result for key, or false on miss. An entry
	// past its expiry behaves as a miss.
	Get(ctx context.Context, key string) (domain.ValidationResult, bool)

	// Set stores a result under key with the store's TTL.
	Set(ctx context.Context, key string, result domain.ValidationResult) error

	// Clear empties the store. Callers invoke this when the underlying
	// schedule changed and previously cached answers may be stale.
	Clear(ctx context.Context) error
}

type cacheEntry struct {
	result    domain.ValidationResult
	expiresAt time.Time
}

// MemoryStore is an in-memory ResultStore scoped to one validation client
// instance. Expiry is checked lazily on Get; expired entries are evicted
// on access. No size bound is kept.
type MemoryStore struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry

	now func() time.Time
}

// NewMemoryStore creates an in-memory store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the stored result for key, or false on miss.
func (s *MemoryStore) Get(ctx context.Context, key string) (domain.ValidationResult, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return domain.ValidationResult{}, false
	}
	if !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return domain.ValidationResult{}, false
	}
	return entry.result, true
}

// Set stores a result under key.
func (s *MemoryStore) Set(ctx context.Context, key string, result domain.ValidationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = cacheEntry{
		result:    result,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Clear empties the store.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]cacheEntry)
	return nil
}

// Len returns the number of entries currently held, including any that
// expired but were not accessed since.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
