package marker

import (
	"github.com/overmap/overmap/pkg/geom"
)

// DefaultPOIIcon is the icon address used when none is set.
const DefaultPOIIcon = "assets/poi.svg"

// POIMarker is a point of interest rendered as an icon with a popup.
type POIMarker struct {
	Base

	// Detail is the HTML content of the marker's popup window. It
	// defaults to the marker label.
	Detail string

	// Icon is the web-app address of the icon image.
	Icon string

	// Anchor is the pixel position of the icon that is anchored to the
	// marker's world position.
	Anchor geom.Vec2i

	// Scale is an optional CSS scale applied to the icon element.
	Scale *float64

	// Filter is an optional CSS filter applied to the icon element.
	Filter string

	classes []string
}

// NewPOI creates a poi-marker with the default icon.
func NewPOI(label string, position geom.Vec3, opts ...Option) *POIMarker {
	m := &POIMarker{
		Base:   newBase(label, position),
		Detail: label,
		Icon:   DefaultPOIIcon,
		Anchor: geom.Vec2i{X: 25, Y: 45},
	}
	m.Base.apply(opts)
	return m
}

func (*POIMarker) Type() Type { return TypePOI }

// SetIcon sets the icon address together with its anchor point.
func (m *POIMarker) SetIcon(iconAddress string, anchor geom.Vec2i) {
	m.Icon = iconAddress
	m.Anchor = anchor
}

// Classes returns a copy of the style classes applied to the marker's
// element.
func (m *POIMarker) Classes() []string {
	return append([]string(nil), m.classes...)
}

// SetClasses replaces the marker's style classes. Every class has to be
// a valid CSS class name.
func (m *POIMarker) SetClasses(classes ...string) error {
	if err := validateClasses(classes); err != nil {
		return err
	}
	m.classes = append([]string(nil), classes...)
	return nil
}

// AddClasses appends style classes to the marker's element.
func (m *POIMarker) AddClasses(classes ...string) error {
	if err := validateClasses(classes); err != nil {
		return err
	}
	m.classes = append(m.classes, classes...)
	return nil
}

func (m *POIMarker) equalVariant(o *POIMarker) bool {
	if (m.Scale == nil) != (o.Scale == nil) {
		return false
	}
	if m.Scale != nil && *m.Scale != *o.Scale {
		return false
	}
	return m.Detail == o.Detail &&
		m.Icon == o.Icon &&
		m.Anchor == o.Anchor &&
		m.Filter == o.Filter &&
		equalStrings(m.classes, o.classes)
}
