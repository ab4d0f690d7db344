package services

import "sync"

// ListInfo is the cached metadata of an email list
type ListInfo struct {
	ID      uint
	Name    string
	Active  bool
	Private bool
}

// ListCache is a process-wide cache of list metadata. Entries are
// invalidated synchronously on every list mutation, before the mutating
// operation returns, so stale membership data is never served.
type ListCache struct {
	mu      sync.RWMutex
	entries map[string]ListInfo
}

// NewListCache creates an empty ListCache
func NewListCache() *ListCache {
	return &ListCache{entries: make(map[string]ListInfo)}
}

// Get returns the cached info for a list name
func (c *ListCache) Get(name string) (ListInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.entries[name]
	return info, ok
}

// Put stores list info in the cache
func (c *ListCache) Put(info ListInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[info.Name] = info
}

// Invalidate drops the entry for a list name
func (c *ListCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Clear drops all entries
func (c *ListCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]ListInfo)
}
