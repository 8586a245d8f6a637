package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMaxItems is the memory cache capacity when none is configured
const DefaultMaxItems = 1000

type memoryEntry struct {
	key       string
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is an in-process LRU cache.
// This is useful for the CLI and for tests without external dependencies.
type MemoryCache struct {
	maxItems int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	now      func() time.Time
	mu       sync.Mutex
}

// NewMemoryCache creates a memory cache holding at most maxItems entries
func NewMemoryCache(maxItems int) *MemoryCache {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &MemoryCache{
		maxItems: maxItems,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		now:      time.Now,
	}
}

// Get returns a copy of the cached payload
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, ErrMiss
	}

	entry := elem.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.removeElement(elem)
		return nil, ErrMiss
	}

	c.order.MoveToFront(elem)
	out := make([]byte, len(entry.payload))
	copy(out, entry.payload)
	return out, nil
}

// Set stores a copy of payload, evicting the least recently used entry when full
func (c *MemoryCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(payload))
	copy(data, payload)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.payload = data
		entry.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return nil
	}

	c.items[key] = c.order.PushFront(&memoryEntry{key: key, payload: data, expiresAt: expiresAt})
	for c.order.Len() > c.maxItems {
		c.removeElement(c.order.Back())
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Close drops every entry
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	return nil
}

func (c *MemoryCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(c.items, entry.key)
	c.order.Remove(elem)
}
