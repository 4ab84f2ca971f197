// Package cache provides a thread-safe LRU cache for compiled programs.
//
// Compiling a program is orders of magnitude more expensive than resolving
// it, so callers that receive program sources dynamically (rule engines,
// per-tenant pipelines) front compilation with this cache and pay the cost
// once per distinct source.
package cache

import (
	"container/list"
	"sync"

	"github.com/vexlang/vex/pkg/compiler"
)

// entry is one cached compilation keyed by its program source.
type entry struct {
	source  string
	program *compiler.CompilationResult
}

// Cache is an LRU cache of compiled programs. When the capacity is reached,
// the least recently used program is evicted.
//
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// New creates a cache holding at most capacity programs; a capacity of zero
// or less falls back to 256.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 256
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached compilation of source and marks it most recently
// used.
func (c *Cache) Get(source string) (*compiler.CompilationResult, bool) {
	c.mu.RLock()
	el, ok := c.items[source]
	// An entry already at the front needs no promotion and no write lock.
	front := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !front {
		// Promote under the write lock; re-check against concurrent eviction.
		c.mu.Lock()
		el, ok = c.items[source]
		if ok {
			c.ll.MoveToFront(el)
		}
		c.mu.Unlock()
		if !ok {
			return nil, false
		}
	}
	return el.Value.(*entry).program, true
}

// Set inserts or replaces the compilation of source, evicting the least
// recently used entry when full.
func (c *Cache) Set(source string, program *compiler.CompilationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[source]; ok {
		el.Value.(*entry).program = program
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry{source: source, program: program})
	c.items[source] = el
}

// GetOrCompile returns the cached compilation of source, or compiles, caches
// and returns it. Failed compilations are not cached, so a source that fails
// recompiles on every call.
func (c *Cache) GetOrCompile(source string, compile func() (*compiler.CompilationResult, error)) (*compiler.CompilationResult, error) {
	if program, ok := c.Get(source); ok {
		return program, nil
	}
	program, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(source, program)
	return program, nil
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of programs the cache holds.
func (c *Cache) Capacity() int { return c.capacity }

// Invalidate drops the compilation of a single source.
func (c *Cache) Invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[source]; ok {
		c.ll.Remove(el)
		delete(c.items, source)
	}
}

// Clear drops every cached program.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry. Callers hold the write
// lock.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).source)
}
