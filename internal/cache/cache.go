// Package cache holds decoded marker documents in memory so repeated
// reads skip storage and the JSON codec.
package cache

import (
	"sync"

	"github.com/overmap/overmap/pkg/marker"
)

// DocumentCache caches decoded marker documents keyed by map id.
// Latency matters here: the web layer asks for documents on every
// refresh and must not hit storage each time.
type DocumentCache struct {
	mu        sync.RWMutex
	documents map[string]map[string]*marker.Set
}

// NewDocumentCache creates an empty cache.
func NewDocumentCache() *DocumentCache {
	return &DocumentCache{
		documents: make(map[string]map[string]*marker.Set),
	}
}

// Get retrieves a cached document by map id.
func (c *DocumentCache) Get(mapID string) (map[string]*marker.Set, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.documents[mapID]
	return doc, ok
}

// Put stores a document for a map, replacing any previous one.
func (c *DocumentCache) Put(mapID string, sets map[string]*marker.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents[mapID] = sets
}

// Invalidate drops the cached document of one map.
func (c *DocumentCache) Invalidate(mapID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.documents, mapID)
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.documents)
}

// Reset clears the whole cache.
func (c *DocumentCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents = make(map[string]map[string]*marker.Set)
}
