package marker

import (
	"errors"

	"github.com/overmap/overmap/pkg/geom"
)

// ErrNilGeometry is returned when a marker is constructed without its
// required shape or line.
var ErrNilGeometry = errors.New("marker geometry must not be nil")

func defaultLineColor() *geom.Color {
	c := geom.NewColor(255, 0, 0, 1)
	return &c
}

func defaultFillColor() *geom.Color {
	c := geom.NewColor(200, 0, 0, 0.3)
	return &c
}

// ShapeMarker renders a flat polygon at a fixed height on the map.
type ShapeMarker struct {
	Base
	Detail

	Shape  *geom.Shape
	ShapeY float64

	// Holes are cut out of the shape when it is rendered.
	Holes []*geom.Shape

	DepthTest bool
	LineWidth int
	LineColor *geom.Color
	FillColor *geom.Color
}

// NewShapeMarker creates a shape-marker positioned at the center of the
// shape's bounding box at height shapeY.
func NewShapeMarker(label string, shape *geom.Shape, shapeY float64, opts ...Option) (*ShapeMarker, error) {
	if shape == nil {
		return nil, ErrNilGeometry
	}
	m := &ShapeMarker{
		Base:      newBase(label, shapeCenter(shape, shapeY)),
		Detail:    Detail{Detail: label},
		Shape:     shape,
		ShapeY:    shapeY,
		DepthTest: true,
		LineWidth: 2,
		LineColor: defaultLineColor(),
		FillColor: defaultFillColor(),
	}
	m.Base.apply(opts)
	return m, nil
}

func (*ShapeMarker) Type() Type { return TypeShape }

// SetShape replaces the marker's shape and height.
func (m *ShapeMarker) SetShape(shape *geom.Shape, shapeY float64) error {
	if shape == nil {
		return ErrNilGeometry
	}
	m.Shape = shape
	m.ShapeY = shapeY
	return nil
}

// CenterPosition moves the marker position to the center of its shape.
func (m *ShapeMarker) CenterPosition() {
	m.Position = shapeCenter(m.Shape, m.ShapeY)
}

func (m *ShapeMarker) equalVariant(o *ShapeMarker) bool {
	return m.Detail == o.Detail &&
		m.Shape.Equal(o.Shape) &&
		m.ShapeY == o.ShapeY &&
		equalShapes(m.Holes, o.Holes) &&
		m.DepthTest == o.DepthTest &&
		m.LineWidth == o.LineWidth &&
		equalColors(m.LineColor, o.LineColor) &&
		equalColors(m.FillColor, o.FillColor)
}

// ExtrudeMarker renders a polygon extruded into a vertical prism between
// two heights.
type ExtrudeMarker struct {
	Base
	Detail

	Shape     *geom.Shape
	ShapeMinY float64
	ShapeMaxY float64

	// Holes are cut out of the shape when it is rendered.
	Holes []*geom.Shape

	DepthTest bool
	LineWidth int
	LineColor *geom.Color
	FillColor *geom.Color
}

// NewExtrudeMarker creates an extrude-marker positioned at the center of
// the prism spanned by the shape between shapeMinY and shapeMaxY.
func NewExtrudeMarker(label string, shape *geom.Shape, shapeMinY, shapeMaxY float64, opts ...Option) (*ExtrudeMarker, error) {
	if shape == nil {
		return nil, ErrNilGeometry
	}
	m := &ExtrudeMarker{
		Base:      newBase(label, shapeCenter(shape, (shapeMinY+shapeMaxY)/2)),
		Detail:    Detail{Detail: label},
		Shape:     shape,
		ShapeMinY: shapeMinY,
		ShapeMaxY: shapeMaxY,
		DepthTest: true,
		LineWidth: 2,
		LineColor: defaultLineColor(),
		FillColor: defaultFillColor(),
	}
	m.Base.apply(opts)
	return m, nil
}

func (*ExtrudeMarker) Type() Type { return TypeExtrude }

// SetShape replaces the marker's shape and height range.
func (m *ExtrudeMarker) SetShape(shape *geom.Shape, shapeMinY, shapeMaxY float64) error {
	if shape == nil {
		return ErrNilGeometry
	}
	m.Shape = shape
	m.ShapeMinY = shapeMinY
	m.ShapeMaxY = shapeMaxY
	return nil
}

// CenterPosition moves the marker position to the center of its prism.
func (m *ExtrudeMarker) CenterPosition() {
	m.Position = shapeCenter(m.Shape, (m.ShapeMinY+m.ShapeMaxY)/2)
}

func (m *ExtrudeMarker) equalVariant(o *ExtrudeMarker) bool {
	return m.Detail == o.Detail &&
		m.Shape.Equal(o.Shape) &&
		m.ShapeMinY == o.ShapeMinY &&
		m.ShapeMaxY == o.ShapeMaxY &&
		equalShapes(m.Holes, o.Holes) &&
		m.DepthTest == o.DepthTest &&
		m.LineWidth == o.LineWidth &&
		equalColors(m.LineColor, o.LineColor) &&
		equalColors(m.FillColor, o.FillColor)
}

func shapeCenter(shape *geom.Shape, y float64) geom.Vec3 {
	min, max := shape.Min(), shape.Max()
	return geom.Vec3{
		X: (min.X + max.X) / 2,
		Y: y,
		Z: (min.Z + max.Z) / 2,
	}
}
