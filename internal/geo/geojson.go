package geo

import (
	"fmt"
	"sort"

	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/overmap/overmap/pkg/geom"
	"github.com/overmap/overmap/pkg/marker"
)

// FeatureCollection converts a marker document into a GeoJSON feature
// collection. Point markers become Points, line markers LineStrings,
// shape and extrude markers Polygons with their holes as interior
// rings. Feature order is deterministic (set id, then marker id).
func FeatureCollection(sets map[string]*marker.Set, proj Projection) (sf.GeoJSONFeatureCollection, error) {
	setIDs := make([]string, 0, len(sets))
	for id := range sets {
		setIDs = append(setIDs, id)
	}
	sort.Strings(setIDs)

	var fc sf.GeoJSONFeatureCollection
	for _, setID := range setIDs {
		set := sets[setID]
		markers := set.Markers()

		markerIDs := make([]string, 0, len(markers))
		for id := range markers {
			markerIDs = append(markerIDs, id)
		}
		sort.Strings(markerIDs)

		for _, markerID := range markerIDs {
			m := markers[markerID]
			g, err := markerGeometry(m, proj)
			if err != nil {
				return nil, fmt.Errorf("marker %q in set %q: %w", markerID, setID, err)
			}
			fc = append(fc, sf.GeoJSONFeature{
				Geometry:   g,
				ID:         setID + "/" + markerID,
				Properties: markerProperties(setID, markerID, m),
			})
		}
	}
	return fc, nil
}

func markerGeometry(m marker.Marker, proj Projection) (sf.Geometry, error) {
	switch v := m.(type) {
	case *marker.HTMLMarker:
		return pointGeometry(v.Position, proj), nil
	case *marker.POIMarker:
		return pointGeometry(v.Position, proj), nil
	case *marker.LineMarker:
		if v.Line == nil {
			return sf.Geometry{}, ErrInvalidCoordinates
		}
		return lineGeometry(v.Line, proj), nil
	case *marker.ShapeMarker:
		if v.Shape == nil {
			return sf.Geometry{}, ErrInvalidCoordinates
		}
		return polygonGeometry(v.Shape, v.Holes, proj), nil
	case *marker.ExtrudeMarker:
		if v.Shape == nil {
			return sf.Geometry{}, ErrInvalidCoordinates
		}
		return polygonGeometry(v.Shape, v.Holes, proj), nil
	default:
		return sf.Geometry{}, fmt.Errorf("unsupported marker type %q", m.Type())
	}
}

func pointGeometry(pos geom.Vec3, proj Projection) sf.Geometry {
	x, y := proj(pos.X, pos.Z)
	return sf.NewPoint(sf.Coordinates{
		XY: sf.XY{X: x, Y: y},
	}).AsGeometry()
}

func lineGeometry(line *geom.Line, proj Projection) sf.Geometry {
	points := line.Points()
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		x, y := proj(p.X, p.Z)
		flat = append(flat, x, y)
	}
	return sf.NewLineString(sf.NewSequence(flat, sf.DimXY)).AsGeometry()
}

func polygonGeometry(shape *geom.Shape, holes []*geom.Shape, proj Projection) sf.Geometry {
	rings := make([]sf.LineString, 0, len(holes)+1)
	rings = append(rings, ring(shape, proj))
	for _, hole := range holes {
		if hole == nil {
			continue
		}
		rings = append(rings, ring(hole, proj))
	}
	return sf.NewPolygon(rings).AsGeometry()
}

// ring closes the shape outline into a linear ring.
func ring(shape *geom.Shape, proj Projection) sf.LineString {
	points := shape.Points()
	flat := make([]float64, 0, (len(points)+1)*2)
	for _, p := range points {
		x, y := proj(p.X, p.Z)
		flat = append(flat, x, y)
	}
	first := points[0]
	x, y := proj(first.X, first.Z)
	flat = append(flat, x, y)
	return sf.NewLineString(sf.NewSequence(flat, sf.DimXY))
}

func markerProperties(setID, markerID string, m marker.Marker) map[string]any {
	props := map[string]any{
		"set":   setID,
		"id":    markerID,
		"type":  string(m.Type()),
		"label": m.Label(),
	}
	switch v := m.(type) {
	case *marker.POIMarker:
		if v.Detail != "" {
			props["detail"] = v.Detail
		}
	case *marker.ShapeMarker:
		if v.Detail.Detail != "" {
			props["detail"] = v.Detail.Detail
		}
	case *marker.ExtrudeMarker:
		if v.Detail.Detail != "" {
			props["detail"] = v.Detail.Detail
		}
	case *marker.LineMarker:
		if v.Detail.Detail != "" {
			props["detail"] = v.Detail.Detail
		}
	}
	return props
}

// Centroid computes the area centroid of a shape outline.
func Centroid(shape *geom.Shape, proj Projection) geom.Vec2 {
	poly := sf.NewPolygon([]sf.LineString{ring(shape, proj)})
	c, ok := poly.Centroid().XY()
	if !ok {
		min, max := shape.Min(), shape.Max()
		return geom.Vec2{X: (min.X + max.X) / 2, Z: (min.Z + max.Z) / 2}
	}
	return geom.Vec2{X: c.X, Z: c.Y}
}
