// Package geom provides the geometry and color value types used by map
// markers: 2D/3D vectors, colors, flat shapes and 3D lines.
package geom

import "math"

// Vec2 is a point on the horizontal map plane. The second component is
// named Z to match the world axis it represents (shape points are
// serialized with an "x"/"z" key pair).
type Vec2 struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Vec3 is a point in world space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec2i is an integer pair, used for pixel anchors and tile coordinates.
type Vec2i struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec3i is an integer triple, used for block positions.
type Vec3i struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Min returns the component-wise minimum of v and o.
func (v Vec2) Min(o Vec2) Vec2 {
	return Vec2{X: math.Min(v.X, o.X), Z: math.Min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec2) Max(o Vec2) Vec2 {
	return Vec2{X: math.Max(v.X, o.X), Z: math.Max(v.Z, o.Z)}
}

// Add returns v translated by (x, z).
func (v Vec2) Add(x, z float64) Vec2 {
	return Vec2{X: v.X + x, Z: v.Z + z}
}

// Min returns the component-wise minimum of v and o.
func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{X: math.Min(v.X, o.X), Y: math.Min(v.Y, o.Y), Z: math.Min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{X: math.Max(v.X, o.X), Y: math.Max(v.Y, o.Y), Z: math.Max(v.Z, o.Z)}
}
