package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShape_TooFewPoints(t *testing.T) {
	_, err := NewShape(Vec2{X: 0, Z: 0}, Vec2{X: 1, Z: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestNewShape_CopiesInput(t *testing.T) {
	points := []Vec2{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 1, Z: 1}}
	s, err := NewShape(points...)
	require.NoError(t, err)

	points[0] = Vec2{X: 99, Z: 99}
	assert.Equal(t, Vec2{X: 0, Z: 0}, s.Point(0))
}

func TestShape_Bounds(t *testing.T) {
	s, err := NewShape(
		Vec2{X: -3, Z: 2},
		Vec2{X: 5, Z: -7},
		Vec2{X: 1, Z: 4},
	)
	require.NoError(t, err)

	assert.Equal(t, Vec2{X: -3, Z: -7}, s.Min())
	assert.Equal(t, Vec2{X: 5, Z: 4}, s.Max())
}

func TestShape_Equal(t *testing.T) {
	a, err := NewShape(Vec2{X: 0, Z: 0}, Vec2{X: 1, Z: 0}, Vec2{X: 1, Z: 1})
	require.NoError(t, err)
	b, err := NewShape(Vec2{X: 0, Z: 0}, Vec2{X: 1, Z: 0}, Vec2{X: 1, Z: 1})
	require.NoError(t, err)
	c, err := NewShape(Vec2{X: 0, Z: 0}, Vec2{X: 2, Z: 0}, Vec2{X: 1, Z: 1})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestRect(t *testing.T) {
	s := Rect(Vec2{X: 1, Z: 2}, Vec2{X: 5, Z: 8})
	require.Equal(t, 4, s.PointCount())
	assert.Equal(t, Vec2{X: 1, Z: 2}, s.Min())
	assert.Equal(t, Vec2{X: 5, Z: 8}, s.Max())
}

func TestEllipse_PointCount(t *testing.T) {
	s, err := Ellipse(Vec2{X: 0, Z: 0}, 10, 5, 16)
	require.NoError(t, err)
	assert.Equal(t, 16, s.PointCount())

	_, err = Ellipse(Vec2{X: 0, Z: 0}, 10, 5, 2)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestCircle_OnRadius(t *testing.T) {
	s, err := Circle(Vec2{X: 2, Z: 3}, 7, 32)
	require.NoError(t, err)
	for i := 0; i < s.PointCount(); i++ {
		p := s.Point(i)
		dx, dz := p.X-2, p.Z-3
		assert.InDelta(t, 7, math.Sqrt(dx*dx+dz*dz), 1e-9)
	}
}

func TestShapeBuilder(t *testing.T) {
	b := NewShapeBuilder()
	b.AddPoints(Vec2{X: 0, Z: 0}, Vec2{X: 1, Z: 0})

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrTooFewPoints)

	b.AddPoints(Vec2{X: 1, Z: 1})
	s, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, s.PointCount())
}

func TestNewLine_TooFewPoints(t *testing.T) {
	_, err := NewLine(Vec3{X: 0, Y: 0, Z: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestLine_Bounds(t *testing.T) {
	l, err := NewLine(
		Vec3{X: -1, Y: 5, Z: 3},
		Vec3{X: 4, Y: -2, Z: 0},
	)
	require.NoError(t, err)

	assert.Equal(t, Vec3{X: -1, Y: -2, Z: 0}, l.Min())
	assert.Equal(t, Vec3{X: 4, Y: 5, Z: 3}, l.Max())
}

func TestLine_Equal(t *testing.T) {
	a, err := NewLine(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	b, err := NewLine(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	c, err := NewLine(Vec3{X: 0, Y: 0, Z: 0}, Vec3{X: 2, Y: 1, Z: 1})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestLineBuilder(t *testing.T) {
	b := NewLineBuilder()
	b.AddPoints(Vec3{X: 0, Y: 0, Z: 0})

	_, err := b.Build()
	assert.ErrorIs(t, err, ErrTooFewPoints)

	b.AddPoints(Vec3{X: 1, Y: 2, Z: 3})
	l, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, l.PointCount())
}

func TestVec2_MinMax(t *testing.T) {
	a := Vec2{X: 1, Z: 5}
	b := Vec2{X: 3, Z: 2}
	assert.Equal(t, Vec2{X: 1, Z: 2}, a.Min(b))
	assert.Equal(t, Vec2{X: 3, Z: 5}, a.Max(b))
}
