// Package marker defines the map-annotation types rendered by the web
// viewer (points of interest, shapes, lines, extruded prisms, HTML
// popups) and their JSON codec. Markers form a closed tagged union
// discriminated by their Type.
package marker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/overmap/overmap/pkg/geom"
)

// Type identifies the concrete marker variant. It is written as the
// "type" discriminator field of the marker JSON document.
type Type string

const (
	TypeHTML    Type = "html"
	TypePOI     Type = "poi"
	TypeShape   Type = "shape"
	TypeExtrude Type = "extrude"
	TypeLine    Type = "line"
)

// Marker is a single labeled, positioned annotation on a rendered map.
// The concrete variants are HTMLMarker, POIMarker, ShapeMarker,
// ExtrudeMarker and LineMarker; the union is closed.
type Marker interface {
	Type() Type

	// Label returns the marker's display label.
	Label() string

	base() *Base
}

// defaultMaxDistance keeps markers visible from effectively any camera
// distance unless the caller narrows the range.
const defaultMaxDistance = 10000000.0

// Base holds the attributes shared by every marker variant.
type Base struct {
	label string

	Position geom.Vec3
	Sorting  int
	Listed   bool

	// Camera distance range within which the marker is displayed.
	MinDistance float64
	MaxDistance float64
}

func newBase(label string, position geom.Vec3) Base {
	b := Base{
		Listed:      true,
		MaxDistance: defaultMaxDistance,
		Position:    position,
	}
	b.SetLabel(label)
	return b
}

func (b *Base) base() *Base { return b }

// Label returns the marker's display label.
func (b *Base) Label() string { return b.label }

// SetLabel sets the marker's display label. HTML-relevant characters
// are entity-escaped so a label can never inject markup into the
// web app.
func (b *Base) SetLabel(label string) {
	b.label = escapeHTML(label)
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

func (b *Base) equalBase(o *Base) bool {
	return b.label == o.label &&
		b.Position == o.Position &&
		b.Sorting == o.Sorting &&
		b.Listed == o.Listed &&
		b.MinDistance == o.MinDistance &&
		b.MaxDistance == o.MaxDistance
}

// Detail holds the HTML content of a marker's popup window and an
// optional link opened when the marker is clicked.
type Detail struct {
	Detail string
	Link   string
	NewTab bool
}

// styleClassPattern matches a single valid CSS class name.
var styleClassPattern = regexp.MustCompile(`^-?[_a-zA-Z]+[_a-zA-Z0-9-]*$`)

// validateClasses rejects any entry that is not a well-formed CSS class
// name.
func validateClasses(classes []string) error {
	for _, c := range classes {
		if !styleClassPattern.MatchString(c) {
			return fmt.Errorf("invalid style-class %q", c)
		}
	}
	return nil
}

// Equal reports whether two markers are the same concrete variant with
// field-for-field equal state.
func Equal(a, b Marker) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type() != b.Type() || !a.base().equalBase(b.base()) {
		return false
	}
	switch am := a.(type) {
	case *HTMLMarker:
		return am.equalVariant(b.(*HTMLMarker))
	case *POIMarker:
		return am.equalVariant(b.(*POIMarker))
	case *ShapeMarker:
		return am.equalVariant(b.(*ShapeMarker))
	case *ExtrudeMarker:
		return am.equalVariant(b.(*ExtrudeMarker))
	case *LineMarker:
		return am.equalVariant(b.(*LineMarker))
	default:
		return false
	}
}

func equalColors(a, b *geom.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalShapes(a, b []*geom.Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
