package storage

import (
	"context"

	"github.com/overmap/overmap/internal/cache"
	"github.com/overmap/overmap/pkg/api"
	"github.com/overmap/overmap/pkg/marker"
)

// cachedStore keeps decoded documents in memory in front of a backend.
type cachedStore struct {
	backend Store
	docs    *cache.DocumentCache
}

// WithCache wraps a store so repeated loads of the same map skip the
// backend and the codec. Saves refresh the cached document.
func WithCache(s Store) Store {
	return &cachedStore{backend: s, docs: cache.NewDocumentCache()}
}

func (c *cachedStore) Init() error { return c.backend.Init() }

func (c *cachedStore) Close() error {
	c.docs.Reset()
	return c.backend.Close()
}

func (c *cachedStore) SaveMarkerSets(ctx context.Context, mapID string, sets map[string]*marker.Set) error {
	if err := c.backend.SaveMarkerSets(ctx, mapID, sets); err != nil {
		c.docs.Invalidate(mapID)
		return err
	}
	c.docs.Put(mapID, sets)
	return nil
}

func (c *cachedStore) LoadMarkerSets(ctx context.Context, mapID string) (map[string]*marker.Set, error) {
	if sets, ok := c.docs.Get(mapID); ok {
		return sets, nil
	}
	sets, err := c.backend.LoadMarkerSets(ctx, mapID)
	if err != nil {
		return nil, err
	}
	c.docs.Put(mapID, sets)
	return sets, nil
}

func (c *cachedStore) Assets(mapID string) api.AssetStorage {
	return c.backend.Assets(mapID)
}
