package geom

import (
	"fmt"
	"sync"
)

// Line is an ordered, immutable sequence of at least 2 points in world
// space. Equality is order-sensitive point equality.
type Line struct {
	points []Vec3

	boundsOnce sync.Once
	min, max   Vec3
}

// NewLine creates a line from the given points. At least 2 points are
// required.
func NewLine(points ...Vec3) (*Line, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: a line has to have at least 2 points", ErrTooFewPoints)
	}
	pts := make([]Vec3, len(points))
	copy(pts, points)
	return &Line{points: pts}, nil
}

// PointCount returns the number of points in the line.
func (l *Line) PointCount() int { return len(l.points) }

// Point returns the i-th point of the line.
func (l *Line) Point(i int) Vec3 { return l.points[i] }

// Points returns a copy of the line's point sequence.
func (l *Line) Points() []Vec3 {
	pts := make([]Vec3, len(l.points))
	copy(pts, l.points)
	return pts
}

// Min returns the minimum corner of the line's axis-aligned bounding box.
// The bounds are computed once and memoized.
func (l *Line) Min() Vec3 {
	l.computeBounds()
	return l.min
}

// Max returns the maximum corner of the line's axis-aligned bounding box.
func (l *Line) Max() Vec3 {
	l.computeBounds()
	return l.max
}

func (l *Line) computeBounds() {
	l.boundsOnce.Do(func() {
		min, max := l.points[0], l.points[0]
		for _, p := range l.points[1:] {
			min = min.Min(p)
			max = max.Max(p)
		}
		l.min, l.max = min, max
	})
}

// Equal reports whether both lines contain the same points in the same
// order.
func (l *Line) Equal(o *Line) bool {
	if l == o {
		return true
	}
	if l == nil || o == nil || len(l.points) != len(o.points) {
		return false
	}
	for i, p := range l.points {
		if p != o.points[i] {
			return false
		}
	}
	return true
}

// LineBuilder collects points for a Line.
type LineBuilder struct {
	points []Vec3
}

// NewLineBuilder creates an empty LineBuilder.
func NewLineBuilder() *LineBuilder {
	return &LineBuilder{}
}

// AddPoints appends points to the line under construction.
func (b *LineBuilder) AddPoints(points ...Vec3) *LineBuilder {
	b.points = append(b.points, points...)
	return b
}

// Build creates the Line. It fails if fewer than 2 points were added.
func (b *LineBuilder) Build() (*Line, error) {
	return NewLine(b.points...)
}
