package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	key        string
	label      string
	value      any
	insertedAt time.Time
	elem       *list.Element
}

// MemoryStore is an in-process TTL cache bounded by entry count. Past
// maxSize the least recently inserted entry is evicted.
type MemoryStore struct {
	mu      sync.Mutex
	items   map[string]*entry
	order   *list.List // front = oldest insertion
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// MemoryOption configures a MemoryStore
type MemoryOption func(*MemoryStore)

// WithClock injects the time source (tests)
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates a store holding at most maxSize entries for ttl each
func NewMemoryStore(maxSize int, ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		items:   make(map[string]*entry),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return now.Sub(e.insertedAt) >= s.ttl
}

func (s *MemoryStore) remove(e *entry) {
	s.order.Remove(e.elem)
	delete(s.items, e.key)
}

// Get returns a live value; an expired entry is evicted here
func (s *MemoryStore) Get(_ context.Context, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	if s.expired(e, s.now()) {
		s.remove(e)
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return e.value, true
}

// Set stores value under key. Overwriting refreshes the insertion time.
func (s *MemoryStore) Set(_ context.Context, key, label string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.items[key]; ok {
		s.remove(e)
	}

	// 만료 항목을 먼저 정리한 뒤에도 가득 차면 가장 오래된 항목 제거
	if len(s.items) >= s.maxSize {
		s.evictExpired(now)
	}
	for len(s.items) >= s.maxSize && s.order.Len() > 0 {
		s.remove(s.order.Front().Value.(*entry))
	}

	e := &entry{key: key, label: label, value: value, insertedAt: now}
	e.elem = s.order.PushBack(e)
	s.items[key] = e
	return nil
}

func (s *MemoryStore) evictExpired(now time.Time) {
	for elem := s.order.Front(); elem != nil; {
		next := elem.Next()
		if e := elem.Value.(*entry); s.expired(e, now) {
			s.remove(e)
		}
		elem = next
	}
}

// Clear drops every entry
func (s *MemoryStore) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	s.items = make(map[string]*entry)
	s.order.Init()
	return n, nil
}

// ClearPattern drops entries whose label (or key) matches pattern
func (s *MemoryStore) ClearPattern(_ context.Context, pattern string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, e := range s.items {
		if MatchPattern(pattern, e.key, e.label) {
			s.remove(e)
			removed++
		}
	}
	return removed, nil
}

// Stats reports the entry count including not-yet-evicted expired entries
func (s *MemoryStore) Stats(_ context.Context) Stats {
	s.mu.Lock()
	size := len(s.items)
	s.mu.Unlock()

	return Stats{
		Backend: "memory",
		Size:    size,
		MaxSize: s.maxSize,
		TTL:     s.ttl,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
}
