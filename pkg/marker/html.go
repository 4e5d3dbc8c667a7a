package marker

import (
	"github.com/overmap/overmap/pkg/geom"
)

// HTMLMarker displays a free-form HTML element on the map. The HTML is
// rendered as-is by the web app, anchored to the marker position.
type HTMLMarker struct {
	Base

	HTML   string
	Anchor geom.Vec2i

	classes []string
}

// NewHTML creates an html-marker with the given label, position and raw
// HTML body.
func NewHTML(label string, position geom.Vec3, html string, opts ...Option) *HTMLMarker {
	m := &HTMLMarker{
		Base: newBase(label, position),
		HTML: html,
	}
	m.Base.apply(opts)
	return m
}

func (*HTMLMarker) Type() Type { return TypeHTML }

// Classes returns a copy of the style classes applied to the marker's
// element.
func (m *HTMLMarker) Classes() []string {
	return append([]string(nil), m.classes...)
}

// SetClasses replaces the marker's style classes. Every class has to be
// a valid CSS class name.
func (m *HTMLMarker) SetClasses(classes ...string) error {
	if err := validateClasses(classes); err != nil {
		return err
	}
	m.classes = append([]string(nil), classes...)
	return nil
}

// AddClasses appends style classes to the marker's element.
func (m *HTMLMarker) AddClasses(classes ...string) error {
	if err := validateClasses(classes); err != nil {
		return err
	}
	m.classes = append(m.classes, classes...)
	return nil
}

func (m *HTMLMarker) equalVariant(o *HTMLMarker) bool {
	return m.HTML == o.HTML &&
		m.Anchor == o.Anchor &&
		equalStrings(m.classes, o.classes)
}
