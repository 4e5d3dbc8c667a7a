// Package session tracks which map the tooling is currently operating
// on, so log records can carry that context.
package session

import (
	"log/slog"
	"sync"
)

// Context holds the current map and world state
type Context struct {
	mu      sync.RWMutex
	mapID   string
	worldID string
}

// NewContext creates a new Context with no active map
func NewContext() *Context {
	return &Context{}
}

// ActiveMap returns the current map and world ids.
func (c *Context) ActiveMap() (mapID, worldID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mapID, c.worldID
}

// SetActiveMap sets the current map and world ids.
func (c *Context) SetActiveMap(mapID, worldID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mapID = mapID
	c.worldID = worldID
}

// Attrs returns the log attributes for the active map. The logging
// session handler stamps them onto every record.
func (c *Context) Attrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mapID == "" {
		return nil
	}
	attrs := []slog.Attr{slog.String("mapId", c.mapID)}
	if c.worldID != "" {
		attrs = append(attrs, slog.String("worldId", c.worldID))
	}
	return attrs
}
