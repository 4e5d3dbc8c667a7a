// Package api defines the facade the host map-rendering application
// exposes to addons. The host implements these interfaces; addon code
// only consumes them.
package api

import (
	"context"
	"errors"
	"image"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/overmap/overmap/pkg/geom"
	"github.com/overmap/overmap/pkg/marker"
)

// ErrNotFound is returned by asset and document lookups when the named
// entry does not exist.
var ErrNotFound = errors.New("not found")

// Host is the root of the facade. Addons obtain it from the
// EnableEvent and must stop using it after the DisableEvent.
type Host interface {
	// Version is the host application version string.
	Version() string

	RenderManager() RenderManager
	WebApp() WebApp
	Plugin() Plugin

	// Maps returns all loaded maps.
	Maps() []Map
	// Map looks up a loaded map by id.
	Map(id string) (Map, bool)

	// Worlds returns all worlds the host knows about.
	Worlds() []World
	// World looks up a world by id.
	World(id string) (World, bool)
}

// World is a dimension that one or more maps are rendered from.
type World interface {
	ID() string
	// Maps returns the maps rendered from this world.
	Maps() []Map
}

// Map is a single rendered map as shown by the web app.
type Map interface {
	ID() string
	Name() string
	World() World

	// MarkerSets is the live marker-set collection of this map, keyed
	// by set id. Mutations are picked up by the web app.
	MarkerSets() map[string]*marker.Set

	// AssetStorage stores per-map assets (icons, images) addressable
	// from markers.
	AssetStorage() AssetStorage

	TileSize() geom.Vec2i
	TileOffset() geom.Vec2i

	// SetFrozen stops or resumes update processing for this map. A
	// frozen map dispatches no tile updates.
	SetFrozen(frozen bool)
	Frozen() bool
}

// PosToTile converts a block position to the tile coordinates it falls
// into on the given map.
func PosToTile(m Map, x, z float64) geom.Vec2i {
	size := m.TileSize()
	off := m.TileOffset()
	return geom.Vec2i{
		X: floorDiv(int(math.Floor(x))-off.X, size.X),
		Y: floorDiv(int(math.Floor(z))-off.Y, size.Y),
	}
}

// floorDiv divides rounding toward negative infinity, matching tile
// grids that extend into negative coordinates.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// RenderManager controls the host's tile-render workers.
type RenderManager interface {
	// ScheduleMapUpdate queues a render update for the given regions
	// of a map. Nil regions means the whole map. Force re-renders
	// tiles that are already up to date.
	ScheduleMapUpdate(m Map, regions []geom.Vec2i, force bool) error

	// ScheduleMapPurge queues removal of all rendered tiles of a map.
	ScheduleMapPurge(m Map) error

	QueueSize() int
	ThreadCount() int
	Running() bool

	// Start spins up n render worker threads.
	Start(n int) error
	Stop() error
}

// WebApp is the web-frontend side of the host.
type WebApp interface {
	// WebRoot is the filesystem root the web app is served from.
	WebRoot() string

	// SetPlayerVisibility toggles whether a player appears on the map.
	SetPlayerVisibility(playerID uuid.UUID, visible bool) error

	// CreateImage stores an image under the given path relative to the
	// web root and returns the address the web app serves it from.
	CreateImage(img image.Image, path string) (string, error)

	// AvailableImages lists the images created with CreateImage,
	// keyed by path, valued by address.
	AvailableImages() (map[string]string, error)
}

// SkinProvider resolves a player's skin texture. Returning a nil image
// without error means no skin is available.
type SkinProvider func(playerID uuid.UUID) (image.Image, error)

// PlayerIconFactory turns a player skin into the icon shown on the map.
type PlayerIconFactory func(playerID uuid.UUID, skin image.Image) image.Image

// Plugin exposes the host's player-integration hooks.
type Plugin interface {
	SkinProvider() SkinProvider
	SetSkinProvider(provider SkinProvider)

	PlayerIconFactory() PlayerIconFactory
	SetPlayerIconFactory(factory PlayerIconFactory)
}

// AssetStorage stores binary assets under logical names.
type AssetStorage interface {
	// Write opens the named asset for writing, replacing any previous
	// content once the returned writer is closed.
	Write(ctx context.Context, name string) (io.WriteCloser, error)

	// Read opens the named asset for reading.
	Read(ctx context.Context, name string) (io.ReadCloser, error)

	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error

	// URL returns the address markers can reference the asset by.
	URL(name string) string
}
