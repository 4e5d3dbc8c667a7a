package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overmap/overmap/pkg/geom"
	"github.com/overmap/overmap/pkg/marker"
)

func testDocument(t *testing.T) map[string]*marker.Set {
	t.Helper()
	set := marker.NewSet("Bases")
	set.Put("spawn", marker.NewPOI("Spawn", geom.Vec3{X: 1, Y: 64, Z: 2}))
	return map[string]*marker.Set{"bases": set}
}

func TestDocumentCache_GetMissing(t *testing.T) {
	c := NewDocumentCache()
	_, ok := c.Get("overworld")
	assert.False(t, ok)
}

func TestDocumentCache_PutGet(t *testing.T) {
	c := NewDocumentCache()
	doc := testDocument(t)

	c.Put("overworld", doc)

	got, ok := c.Get("overworld")
	require.True(t, ok)
	assert.Equal(t, doc, got)
	assert.Equal(t, 1, c.Len())
}

func TestDocumentCache_PutReplaces(t *testing.T) {
	c := NewDocumentCache()
	c.Put("overworld", testDocument(t))
	c.Put("overworld", map[string]*marker.Set{})

	got, ok := c.Get("overworld")
	require.True(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, 1, c.Len())
}

func TestDocumentCache_Invalidate(t *testing.T) {
	c := NewDocumentCache()
	c.Put("overworld", testDocument(t))
	c.Put("nether", testDocument(t))

	c.Invalidate("overworld")

	_, ok := c.Get("overworld")
	assert.False(t, ok)
	_, ok = c.Get("nether")
	assert.True(t, ok)
}

func TestDocumentCache_Reset(t *testing.T) {
	c := NewDocumentCache()
	c.Put("overworld", testDocument(t))
	c.Put("nether", testDocument(t))

	c.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestDocumentCache_Concurrent(t *testing.T) {
	c := NewDocumentCache()
	doc := testDocument(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Put("overworld", doc)
		}()
		go func() {
			defer wg.Done()
			c.Get("overworld")
		}()
	}
	wg.Wait()

	_, ok := c.Get("overworld")
	assert.True(t, ok)
}
