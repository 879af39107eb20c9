package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type memoryItem[V any] struct {
	key       string
	value     V
	expiresAt time.Time // zero never expires
}

func (it *memoryItem[V]) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// Memory is an in-process Cache with TTL expiry and an optional LRU bound.
type Memory[V any] struct {
	index      map[string]*list.Element
	lru        *list.List // front is most recently used
	defaultTTL time.Duration
	sweepEvery time.Duration
	maxEntries int
	stop       chan struct{}
	mu         sync.Mutex
	closed     bool
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	defaultTTL time.Duration
	sweepEvery time.Duration
	maxEntries int
}

// WithDefaultTTL sets the ttl used when Set is called with zero. Default 1h.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.defaultTTL = d
	}
}

// WithSweepInterval sets how often expired entries are purged in the
// background. Zero disables the sweeper. Default 1m.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.sweepEvery = d
	}
}

// WithMaxEntries bounds the cache size. The least recently used entry is
// evicted when the bound is reached. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) {
		c.maxEntries = n
	}
}

// NewMemory creates a Memory cache. Call Close to stop the sweeper.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{
		defaultTTL: time.Hour,
		sweepEvery: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		index:      make(map[string]*list.Element),
		lru:        list.New(),
		defaultTTL: cfg.defaultTTL,
		sweepEvery: cfg.sweepEvery,
		maxEntries: cfg.maxEntries,
		stop:       make(chan struct{}),
	}
	if m.sweepEvery > 0 {
		go m.sweep()
	}
	return m
}

// Get implements Cache.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.index[key]
	if !ok {
		return zero, ErrNotFound
	}
	it := el.Value.(*memoryItem[V])
	if it.expired(time.Now()) {
		m.remove(el)
		return zero, ErrNotFound
	}
	m.lru.MoveToFront(el)
	return it.value, nil
}

// Set implements Cache.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if el, ok := m.index[key]; ok {
		it := el.Value.(*memoryItem[V])
		it.value, it.expiresAt = value, expiresAt
		m.lru.MoveToFront(el)
		return nil
	}

	if m.maxEntries > 0 && m.lru.Len() >= m.maxEntries {
		if oldest := m.lru.Back(); oldest != nil {
			m.remove(oldest)
		}
	}
	m.index[key] = m.lru.PushFront(&memoryItem[V]{key: key, value: value, expiresAt: expiresAt})
	return nil
}

// Delete implements Cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if el, ok := m.index[key]; ok {
		m.remove(el)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included until
// they are swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}

func (m *Memory[V]) sweep() {
	t := time.NewTicker(m.sweepEvery)
	defer t.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-t.C:
			m.purge(now)
		}
	}
}

func (m *Memory[V]) purge(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for el := m.lru.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*memoryItem[V]).expired(now) {
			m.remove(el)
		}
		el = prev
	}
}

// remove must be called with mu held.
func (m *Memory[V]) remove(el *list.Element) {
	m.lru.Remove(el)
	delete(m.index, el.Value.(*memoryItem[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
