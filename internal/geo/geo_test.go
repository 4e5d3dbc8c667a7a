package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overmap/overmap/pkg/geom"
	"github.com/overmap/overmap/pkg/marker"
)

func TestIdentity_FlipsNorth(t *testing.T) {
	proj := Identity()
	x, y := proj(5, 10)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, -10.0, y)
}

func TestWebMercator(t *testing.T) {
	proj := WebMercator(1000)

	// 1000 blocks east, 1000 blocks north of the origin is (1, 1) in
	// degrees.
	x, y := proj(1000, -1000)
	assert.InDelta(t, 111319.49, x, 0.01)
	assert.InDelta(t, 111325.14, y, 0.01)

	x, y = proj(0, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

func TestNewProjection(t *testing.T) {
	for _, name := range []string{"", "none"} {
		proj, err := NewProjection(name, 0)
		require.NoError(t, err)
		x, y := proj(1, 2)
		assert.Equal(t, 1.0, x)
		assert.Equal(t, -2.0, y)
	}

	proj, err := NewProjection("webmercator", 1000)
	require.NoError(t, err)
	require.NotNil(t, proj)

	_, err = NewProjection("3857", 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	_, err = NewProjection("utm", 1000)
	assert.ErrorContains(t, err, "unknown projection")
}

type featureJSON struct {
	ID       string `json:"id"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

func collectFeatures(t *testing.T, sets map[string]*marker.Set) []featureJSON {
	t.Helper()
	fc, err := FeatureCollection(sets, Identity())
	require.NoError(t, err)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var doc struct {
		Type     string        `json:"type"`
		Features []featureJSON `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	return doc.Features
}

func TestFeatureCollection(t *testing.T) {
	square, err := geom.NewShape(
		geom.Vec2{X: 0, Z: 0},
		geom.Vec2{X: 10, Z: 0},
		geom.Vec2{X: 10, Z: 10},
		geom.Vec2{X: 0, Z: 10},
	)
	require.NoError(t, err)
	road, err := geom.NewLine(geom.Vec3{X: 0, Y: 64, Z: 0}, geom.Vec3{X: 100, Y: 64, Z: 50})
	require.NoError(t, err)

	bases := marker.NewSet("Bases")
	bases.Put("spawn", marker.NewPOI("Spawn", geom.Vec3{X: 1, Y: 64, Z: 2}))

	zones := marker.NewSet("Zones")
	zone, err := marker.NewShapeMarker("Zone", square, 70)
	require.NoError(t, err)
	zone.Detail.Detail = "home zone"
	zones.Put("zone-1", zone)
	line, err := marker.NewLineMarker("Road", road)
	require.NoError(t, err)
	zones.Put("road", line)

	features := collectFeatures(t, map[string]*marker.Set{
		"zones": zones,
		"bases": bases,
	})
	require.Len(t, features, 3)

	// Sorted by set id, then marker id.
	assert.Equal(t, "bases/spawn", features[0].ID)
	assert.Equal(t, "zones/road", features[1].ID)
	assert.Equal(t, "zones/zone-1", features[2].ID)

	spawn := features[0]
	assert.Equal(t, "Point", spawn.Geometry.Type)
	var pt []float64
	require.NoError(t, json.Unmarshal(spawn.Geometry.Coordinates, &pt))
	assert.Equal(t, []float64{1, -2}, pt)
	assert.Equal(t, "poi", spawn.Properties["type"])
	assert.Equal(t, "Spawn", spawn.Properties["label"])
	assert.Equal(t, "bases", spawn.Properties["set"])
	assert.Equal(t, "spawn", spawn.Properties["id"])

	assert.Equal(t, "LineString", features[1].Geometry.Type)
	var ls [][]float64
	require.NoError(t, json.Unmarshal(features[1].Geometry.Coordinates, &ls))
	assert.Equal(t, [][]float64{{0, 0}, {100, -50}}, ls)

	poly := features[2]
	assert.Equal(t, "Polygon", poly.Geometry.Type)
	var rings [][][]float64
	require.NoError(t, json.Unmarshal(poly.Geometry.Coordinates, &rings))
	require.Len(t, rings, 1)
	// The outline is closed.
	require.Len(t, rings[0], 5)
	assert.Equal(t, rings[0][0], rings[0][4])
	assert.Equal(t, "home zone", poly.Properties["detail"])
}

func TestFeatureCollection_PolygonHoles(t *testing.T) {
	square, err := geom.NewShape(
		geom.Vec2{X: 0, Z: 0},
		geom.Vec2{X: 10, Z: 0},
		geom.Vec2{X: 10, Z: 10},
		geom.Vec2{X: 0, Z: 10},
	)
	require.NoError(t, err)
	hole, err := geom.NewShape(
		geom.Vec2{X: 2, Z: 2},
		geom.Vec2{X: 4, Z: 2},
		geom.Vec2{X: 4, Z: 4},
	)
	require.NoError(t, err)

	m, err := marker.NewShapeMarker("Zone", square, 70)
	require.NoError(t, err)
	m.Holes = []*geom.Shape{hole, nil}

	set := marker.NewSet("Zones")
	set.Put("zone", m)

	features := collectFeatures(t, map[string]*marker.Set{"zones": set})
	require.Len(t, features, 1)

	var rings [][][]float64
	require.NoError(t, json.Unmarshal(features[0].Geometry.Coordinates, &rings))
	// Nil holes are skipped, real holes become interior rings.
	require.Len(t, rings, 2)
	assert.Len(t, rings[1], 4)
}

func TestFeatureCollection_NilGeometry(t *testing.T) {
	set := marker.NewSet("Zones")
	set.Put("broken", &marker.LineMarker{})

	_, err := FeatureCollection(map[string]*marker.Set{"zones": set}, Identity())
	require.ErrorIs(t, err, ErrInvalidCoordinates)
	assert.ErrorContains(t, err, `marker "broken" in set "zones"`)
}

func TestCentroid(t *testing.T) {
	square, err := geom.NewShape(
		geom.Vec2{X: 0, Z: 0},
		geom.Vec2{X: 10, Z: 0},
		geom.Vec2{X: 10, Z: 10},
		geom.Vec2{X: 0, Z: 10},
	)
	require.NoError(t, err)

	c := Centroid(square, Identity())
	assert.InDelta(t, 5, c.X, 1e-9)
	assert.InDelta(t, -5, c.Z, 1e-9)
}
