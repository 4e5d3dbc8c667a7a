// Package geo exports marker documents as GeoJSON, optionally
// georeferenced into EPSG:3857 for GIS consumers.
package geo

import (
	"errors"
	"fmt"

	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when a marker carries coordinates
// that cannot be projected.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Projection maps block coordinates (x east, z south) to the exported
// coordinate space.
type Projection func(x, z float64) (px, py float64)

// Identity keeps block coordinates as-is, with the y axis flipped so
// north points up.
func Identity() Projection {
	return func(x, z float64) (float64, float64) {
		return x, -z
	}
}

// WebMercator interprets block coordinates as fractions of a degree
// and projects them to EPSG:3857. blocksPerDegree controls the scale.
func WebMercator(blocksPerDegree float64) Projection {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	return func(x, z float64) (float64, float64) {
		lon := x / blocksPerDegree
		lat := -z / blocksPerDegree
		px, py, _ := f(lon, lat, 0)
		return px, py
	}
}

// NewProjection builds a projection from its configured name.
func NewProjection(name string, blocksPerDegree float64) (Projection, error) {
	switch name {
	case "", "none":
		return Identity(), nil
	case "webmercator", "3857":
		if blocksPerDegree <= 0 {
			return nil, fmt.Errorf("%w: blocksPerDegree must be positive", ErrInvalidCoordinates)
		}
		return WebMercator(blocksPerDegree), nil
	default:
		return nil, fmt.Errorf("unknown projection: %s", name)
	}
}
