package lease

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with TTL expiry. Used in tests and as
// a fallback for single-node setups without Redis; it offers no
// cross-process exclusivity. The clock is injectable so expiry can be
// driven deterministically.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	holder    string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok && s.now().Before(entry.expiresAt) {
		return false, nil
	}
	s.entries[key] = memoryEntry{holder: holder, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return "", nil
	}
	return entry.holder, nil
}

func (s *MemoryStore) Release(ctx context.Context, key, holder string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !s.now().Before(entry.expiresAt) || entry.holder != holder {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

var _ Store = (*MemoryStore)(nil)
