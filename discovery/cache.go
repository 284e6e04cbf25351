package discovery

import (
	"sort"
	"sync"
)

// Cache holds the last non-empty instance list fetched for each service name.
// Entries never expire; they are replaced whole by the next Set for the same
// name or removed with Invalidate.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]Instance
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]Instance)}
}

// Get returns a copy of the cached list for name. ok is false when there is
// no entry.
func (c *Cache) Get(name string) (instances []Instance, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[name]
	if !ok || len(entry) == 0 {
		return nil, false
	}
	return cloneInstances(entry), true
}

// Set replaces the entry for name. Empty lists are ignored so that a
// populated entry is never overwritten with nothing. It reports whether the
// entry was stored.
func (c *Cache) Set(name string, instances []Instance) bool {
	if len(instances) == 0 {
		return false
	}
	entry := cloneInstances(instances)
	c.mu.Lock()
	c.entries[name] = entry
	c.mu.Unlock()
	return true
}

// Invalidate drops the entry for name.
func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

// Names returns the cached service names in sorted order.
func (c *Cache) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of cached service names.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
