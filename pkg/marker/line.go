package marker

import (
	"github.com/overmap/overmap/pkg/geom"
)

// LineMarker renders a polyline through world space.
type LineMarker struct {
	Base
	Detail

	Line *geom.Line

	DepthTest bool
	LineWidth int
	LineColor *geom.Color
}

// NewLineMarker creates a line-marker positioned at the center of the
// line's bounding box.
func NewLineMarker(label string, line *geom.Line, opts ...Option) (*LineMarker, error) {
	if line == nil {
		return nil, ErrNilGeometry
	}
	m := &LineMarker{
		Base:      newBase(label, lineCenter(line)),
		Detail:    Detail{Detail: label},
		Line:      line,
		DepthTest: true,
		LineWidth: 2,
		LineColor: defaultLineColor(),
	}
	m.Base.apply(opts)
	return m, nil
}

func (*LineMarker) Type() Type { return TypeLine }

// SetLine replaces the marker's line.
func (m *LineMarker) SetLine(line *geom.Line) error {
	if line == nil {
		return ErrNilGeometry
	}
	m.Line = line
	return nil
}

// CenterPosition moves the marker position to the center of its line.
func (m *LineMarker) CenterPosition() {
	m.Position = lineCenter(m.Line)
}

func (m *LineMarker) equalVariant(o *LineMarker) bool {
	return m.Detail == o.Detail &&
		m.Line.Equal(o.Line) &&
		m.DepthTest == o.DepthTest &&
		m.LineWidth == o.LineWidth &&
		equalColors(m.LineColor, o.LineColor)
}

func lineCenter(line *geom.Line) geom.Vec3 {
	min, max := line.Min(), line.Max()
	return geom.Vec3{
		X: (min.X + max.X) / 2,
		Y: (min.Y + max.Y) / 2,
		Z: (min.Z + max.Z) / 2,
	}
}
