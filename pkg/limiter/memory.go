package limiter

import (
	"context"
	"sync"
	"time"
)

type counterEntry struct {
	count   int64
	hasTTL  bool
	expires time.Time
}

// MemoryCounter is an in-process Counter with the same increment and TTL
// semantics as the Redis adapter.
//
// It is safe for concurrent use by multiple goroutines, but its state is
// local to the process and is not shared across replicas. Use RedisCounter
// when you need a single global budget across multiple instances.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*counterEntry
}

var _ Counter = (*MemoryCounter)(nil)

// NewMemoryCounter constructs a MemoryCounter with empty state.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		entries: make(map[string]*counterEntry),
	}
}

// Incr implements Counter. Expired entries are reaped lazily, mirroring key
// expiry in Redis.
func (m *MemoryCounter) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	e, ok := m.entries[key]
	if ok && e.hasTTL && now.After(e.expires) {
		ok = false
	}
	if !ok {
		e = &counterEntry{}
		m.entries[key] = e
	}
	e.count++
	return e.count, nil
}

// ExpireIfUnset implements Counter. A TTL that is already running is never
// extended, reset or shortened.
func (m *MemoryCounter) ExpireIfUnset(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || e.hasTTL {
		return nil
	}
	e.hasTTL = true
	e.expires = time.Now().Add(ttl)
	return nil
}
