package geom

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrTooFewPoints is returned when a Shape or Line is constructed with
// fewer points than its minimum.
var ErrTooFewPoints = errors.New("too few points")

// Shape is an ordered, immutable sequence of at least 3 points on the
// horizontal map plane. Equality is order-sensitive point equality.
type Shape struct {
	points []Vec2

	boundsOnce sync.Once
	min, max   Vec2
}

// NewShape creates a shape from the given points. At least 3 points are
// required.
func NewShape(points ...Vec2) (*Shape, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: a shape has to have at least 3 points", ErrTooFewPoints)
	}
	pts := make([]Vec2, len(points))
	copy(pts, points)
	return &Shape{points: pts}, nil
}

// PointCount returns the number of points in the shape.
func (s *Shape) PointCount() int { return len(s.points) }

// Point returns the i-th point of the shape.
func (s *Shape) Point(i int) Vec2 { return s.points[i] }

// Points returns a copy of the shape's point sequence.
func (s *Shape) Points() []Vec2 {
	pts := make([]Vec2, len(s.points))
	copy(pts, s.points)
	return pts
}

// Min returns the minimum corner of the shape's axis-aligned bounding box.
// The bounds are computed once and memoized.
func (s *Shape) Min() Vec2 {
	s.computeBounds()
	return s.min
}

// Max returns the maximum corner of the shape's axis-aligned bounding box.
func (s *Shape) Max() Vec2 {
	s.computeBounds()
	return s.max
}

func (s *Shape) computeBounds() {
	s.boundsOnce.Do(func() {
		min, max := s.points[0], s.points[0]
		for _, p := range s.points[1:] {
			min = min.Min(p)
			max = max.Max(p)
		}
		s.min, s.max = min, max
	})
}

// Equal reports whether both shapes contain the same points in the same
// order.
func (s *Shape) Equal(o *Shape) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.points) != len(o.points) {
		return false
	}
	for i, p := range s.points {
		if p != o.points[i] {
			return false
		}
	}
	return true
}

// Rect creates a rectangular shape spanning the two given corners.
func Rect(pos1, pos2 Vec2) *Shape {
	min := pos1.Min(pos2)
	max := pos1.Max(pos2)
	s, _ := NewShape(
		min,
		Vec2{X: max.X, Z: min.Z},
		max,
		Vec2{X: min.X, Z: max.Z},
	)
	return s
}

// Ellipse creates an ellipse approximated by the given number of points
// (minimum 3) around center.
func Ellipse(center Vec2, radiusX, radiusZ float64, points int) (*Shape, error) {
	if points < 3 {
		return nil, fmt.Errorf("%w: a shape has to have at least 3 points", ErrTooFewPoints)
	}
	pts := make([]Vec2, points)
	segment := 2 * math.Pi / float64(points)
	angle := 0.0
	for i := range pts {
		pts[i] = center.Add(math.Sin(angle)*radiusX, math.Cos(angle)*radiusZ)
		angle += segment
	}
	return NewShape(pts...)
}

// Circle creates a circle approximated by the given number of points.
func Circle(center Vec2, radius float64, points int) (*Shape, error) {
	return Ellipse(center, radius, radius, points)
}

// ShapeBuilder collects points for a Shape.
type ShapeBuilder struct {
	points []Vec2
}

// NewShapeBuilder creates an empty ShapeBuilder.
func NewShapeBuilder() *ShapeBuilder {
	return &ShapeBuilder{}
}

// AddPoints appends points to the shape under construction.
func (b *ShapeBuilder) AddPoints(points ...Vec2) *ShapeBuilder {
	b.points = append(b.points, points...)
	return b
}

// Build creates the Shape. It fails if fewer than 3 points were added.
func (b *ShapeBuilder) Build() (*Shape, error) {
	return NewShape(b.points...)
}
