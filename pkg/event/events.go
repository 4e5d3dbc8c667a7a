package event

import (
	"github.com/google/uuid"

	"github.com/overmap/overmap/pkg/api"
)

// EnableEvent is dispatched when the host API becomes available.
// Listeners receive the live Host facade.
type EnableEvent struct {
	Host api.Host
}

// DisableEvent is dispatched right before the host API shuts down.
// The Host is still valid for the duration of the dispatch.
type DisableEvent struct {
	Host api.Host
}

// MapEvent is implemented by every event concerning a single map.
// Registering a listener for MapEvent receives all of them.
type MapEvent interface {
	EventMap() api.Map
}

// MapFreezeEvent is dispatched when a map's update processing gets
// frozen, either through the API or by a user command.
type MapFreezeEvent struct {
	Map api.Map
}

func (e MapFreezeEvent) EventMap() api.Map { return e.Map }

// MapUnfreezeEvent is dispatched when a frozen map resumes updating.
type MapUnfreezeEvent struct {
	Map api.Map
}

func (e MapUnfreezeEvent) EventMap() api.Map { return e.Map }

// PlayerVisibilityEvent is dispatched when a player's visibility on the
// web app is toggled.
type PlayerVisibilityEvent struct {
	PlayerID uuid.UUID
	Visible  bool
}
