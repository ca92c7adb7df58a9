// Package cache implements the Symbol Cache (spec §2 item 8, §5): a bounded LRU
// of per-file symbol lists, invalidated per file on buffer edit and flushed
// entirely on session rebuild.
package cache

import (
	"container/list"
	"sync"

	"github.com/d-ambatenne/lsp-kotlin-review-sub000/internal/facade"
)

// DefaultCapacity is the LRU size named in spec §5 ("≈ 128 entries").
const DefaultCapacity = 128

// SymbolCache is a bounded LRU keyed by file path. Reads and writes are mutually
// excluded under a single lock (spec §5: "a small lock"); entries are small
// enough that lock contention is not a design concern at this size.
type SymbolCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type entry struct {
	path    string
	symbols []facade.ResolvedSymbol
}

// New builds a SymbolCache with the given capacity. capacity <= 0 uses
// DefaultCapacity.
func New(capacity int) *SymbolCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &SymbolCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the cached symbol list for path, if present, and marks it most
// recently used.
func (c *SymbolCache) Get(path string) ([]facade.ResolvedSymbol, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).symbols, true
}

// Put stores symbols for path, evicting the least-recently-used entry if the
// cache is at capacity.
func (c *SymbolCache) Put(path string, symbols []facade.ResolvedSymbol) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[path]; ok {
		el.Value.(*entry).symbols = symbols
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry{path: path, symbols: symbols})
	c.entries[path] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).path)
		}
	}
}

// Invalidate removes exactly one entry, for path, on a buffer edit (spec §5:
// "invalidation on buffer update removes exactly one entry").
func (c *SymbolCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[path]; ok {
		c.order.Remove(el)
		delete(c.entries, path)
	}
}

// Clear flushes the entire cache, on session rebuild (spec §2 item 8).
func (c *SymbolCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element, c.capacity)
	c.order.Init()
}
