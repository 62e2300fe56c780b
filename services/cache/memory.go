package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize bounds the number of keys an in-process cache holds
const DefaultMemorySize = 1024

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryService is an in-process CacheService with per-key expiration
type MemoryService struct {
	entries *expirable.LRU[string, memoryEntry]
	now     func() time.Time
}

// NewMemoryService creates an in-process cache holding at most size keys
func NewMemoryService(size int) *MemoryService {
	return &MemoryService{
		// Expiry is tracked per entry, so the LRU itself never times out
		entries: expirable.NewLRU[string, memoryEntry](size, nil, 0),
		now:     time.Now,
	}
}

// Get retrieves a value that has not yet expired
func (m *MemoryService) Get(key string) ([]byte, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.entries.Remove(key)
		return nil, ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value; a non-positive expiration never expires
func (m *MemoryService) Set(key string, value []byte, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = m.now().Add(expiration)
	}
	m.entries.Add(key, entry)
	return nil
}

// Delete removes a value
func (m *MemoryService) Delete(key string) error {
	m.entries.Remove(key)
	return nil
}
