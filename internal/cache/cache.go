package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 50

// Entry is the metadata recorded for one successfully loaded image.
// Entries are never mutated after insertion; they leave the cache only
// through capacity eviction or an explicit Clear.
type Entry struct {
	SourceURL    string
	LoadDuration time.Duration
	RecordedAt   time.Time
	Width        int
	Height       int
}

// Stats is a point-in-time snapshot of the cache for the admin API.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Evictions uint64
	// URLs lists the cached keys in insertion order, oldest first.
	URLs []string
	// Entries holds each key's recorded metadata, same order as URLs.
	Entries []Entry
}

// Cache is a thread-safe bounded mapping from image URL to Entry.
// Insertion order defines eviction order; size never exceeds capacity
// after any Put.
type Cache struct {
	mu        sync.Mutex
	capacity  int
	order     *list.List // node values are *node; oldest at front
	items     map[string]*list.Element
	hits      uint64
	evictions uint64
}

// node is the list payload. The key is stored redundantly so eviction can
// delete the map entry in O(1).
type node struct {
	key   string
	entry Entry
}

// New creates a Cache holding at most capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the entry for url and whether it was present. A present key
// increments the hit counter; a miss does not. Lookups never change the
// eviction order.
func (c *Cache) Get(url string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[url]
	if !ok {
		return Entry{}, false
	}
	c.hits++
	return elem.Value.(*node).entry, true
}

// Put inserts the entry for url, evicting the single oldest entry first if
// the cache is already at capacity. Re-putting an existing key replaces the
// entry without changing its insertion position.
func (c *Cache) Put(url string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[url]; ok {
		elem.Value.(*node).entry = e
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*node).key)
			c.evictions++
		}
	}

	c.items[url] = c.order.PushBack(&node{key: url, entry: e})
}

// Len returns the number of entries currently held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache state and counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	urls := make([]string, 0, c.order.Len())
	entries := make([]Entry, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		n := elem.Value.(*node)
		urls = append(urls, n.key)
		entries = append(entries, n.entry)
	}
	return Stats{
		Size:      c.order.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Evictions: c.evictions,
		URLs:      urls,
		Entries:   entries,
	}
}

// Clear removes all entries and resets the hit and eviction counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	c.hits = 0
	c.evictions = 0
}
