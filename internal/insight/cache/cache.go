// Package cache memoizes inference results by request-identity key. Expiry
// is lazy on read; occupancy is bounded with insertion-order eviction, not
// LRU: reads never refresh an entry's position.
package cache

import (
	"context"
	"sync"
	"time"
)

// TTL is how long a cached result stays servable.
const TTL = time.Hour

// MaxEntries is the soft occupancy cap.
const MaxEntries = 100

// Store is the cache surface. Payloads are opaque bytes; the orchestrator
// owns (de)serialization.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, payload []byte) error
}

type memEntry struct {
	payload  []byte
	storedAt time.Time
}

// MemoryStore is the single-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
	// order holds keys oldest-inserted first. A key re-put keeps its slot.
	order []string

	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]memEntry),
		ttl:        TTL,
		maxEntries: MaxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.now().Sub(entry.storedAt) >= s.ttl {
		s.remove(key)
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; exists {
		s.entries[key] = memEntry{payload: payload, storedAt: s.now()}
		return nil
	}

	if len(s.order) >= s.maxEntries {
		s.remove(s.order[0])
	}

	s.entries[key] = memEntry{payload: payload, storedAt: s.now()}
	s.order = append(s.order, key)
	return nil
}

// Len reports current occupancy, expired entries included until read.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *MemoryStore) remove(key string) {
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
