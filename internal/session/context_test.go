package session

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_ActiveMap(t *testing.T) {
	c := NewContext()

	mapID, worldID := c.ActiveMap()
	assert.Empty(t, mapID)
	assert.Empty(t, worldID)

	c.SetActiveMap("overworld", "world")
	mapID, worldID = c.ActiveMap()
	assert.Equal(t, "overworld", mapID)
	assert.Equal(t, "world", worldID)
}

func TestContext_Attrs(t *testing.T) {
	c := NewContext()
	assert.Nil(t, c.Attrs())

	c.SetActiveMap("overworld", "")
	assert.Equal(t, []slog.Attr{slog.String("mapId", "overworld")}, c.Attrs())

	c.SetActiveMap("nether", "world")
	assert.Equal(t, []slog.Attr{
		slog.String("mapId", "nether"),
		slog.String("worldId", "world"),
	}, c.Attrs())
}
