// Package storage persists marker documents and map assets. Backends
// are selected by configuration through New.
package storage

import (
	"context"

	"github.com/overmap/overmap/pkg/api"
	"github.com/overmap/overmap/pkg/marker"
)

// ErrNotFound is returned when a requested document or asset does not
// exist. Alias of api.ErrNotFound so backends can return it without
// importing this package.
var ErrNotFound = api.ErrNotFound

// Store is the interface all storage backends must satisfy.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveMarkerSets persists the full marker document of a map,
	// replacing whatever was stored before.
	SaveMarkerSets(ctx context.Context, mapID string, sets map[string]*marker.Set) error

	// LoadMarkerSets reads back a map's marker document. Returns
	// ErrNotFound if the map has no stored document.
	LoadMarkerSets(ctx context.Context, mapID string) (map[string]*marker.Set, error)

	// Assets returns the asset storage scoped to one map.
	Assets(mapID string) api.AssetStorage
}
