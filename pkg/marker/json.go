package marker

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/overmap/overmap/pkg/geom"
)

// ParseError is returned when a marker document cannot be decoded:
// malformed JSON, a type-mismatched field or invalid geometry. The
// document is never silently coerced or defaulted.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("marker: %s: %v", e.Msg, e.Err)
	}
	return "marker: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownTypeError is returned when a marker object carries a "type"
// discriminator outside the closed set of variants. A reader that
// cannot identify a marker type must not silently drop it.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("marker: unknown marker type %q", e.Tag)
}

// coord is a JSON number rounded to 4 decimal places on write, printed
// as an integer literal when the rounded value has no fractional part.
// The rounding is lossy by design; re-encoding a decoded value is
// byte-stable.
type coord float64

func (c coord) MarshalJSON() ([]byte, error) {
	d := math.Round(float64(c)*10000) / 10000
	if d == math.Trunc(d) && math.Abs(d) < 1e15 {
		return strconv.AppendInt(nil, int64(d), 10), nil
	}
	return strconv.AppendFloat(nil, d, 'f', -1, 64), nil
}

type vec3JSON struct {
	X coord `json:"x"`
	Y coord `json:"y"`
	Z coord `json:"z"`
}

// vec2JSON is a shape point; the second component uses the "z" key.
type vec2JSON struct {
	X coord `json:"x"`
	Z coord `json:"z"`
}

type colorJSON struct {
	R int     `json:"r"`
	G int     `json:"g"`
	B int     `json:"b"`
	A float64 `json:"a"`
}

type baseJSON struct {
	Type        Type     `json:"type"`
	Label       string   `json:"label"`
	Position    vec3JSON `json:"position"`
	Sorting     int      `json:"sorting"`
	Listed      bool     `json:"listed"`
	MinDistance coord    `json:"minDistance"`
	MaxDistance coord    `json:"maxDistance"`
}

type htmlJSON struct {
	baseJSON
	HTML    string     `json:"html"`
	Anchor  geom.Vec2i `json:"anchor"`
	Classes []string   `json:"classes,omitempty"`
}

type poiJSON struct {
	baseJSON
	Detail  string     `json:"detail"`
	Icon    string     `json:"icon"`
	Anchor  geom.Vec2i `json:"anchor"`
	Scale   *float64   `json:"scale,omitempty"`
	Filter  string     `json:"filter,omitempty"`
	Classes []string   `json:"classes,omitempty"`
}

type shapeJSON struct {
	baseJSON
	Detail    string       `json:"detail"`
	Link      string       `json:"link,omitempty"`
	NewTab    bool         `json:"newTab,omitempty"`
	Shape     []vec2JSON   `json:"shape,omitempty"`
	ShapeY    coord        `json:"shapeY"`
	Holes     [][]vec2JSON `json:"holes,omitempty"`
	DepthTest bool         `json:"depthTest"`
	LineWidth int          `json:"lineWidth"`
	LineColor *colorJSON   `json:"lineColor,omitempty"`
	FillColor *colorJSON   `json:"fillColor,omitempty"`
}

type extrudeJSON struct {
	baseJSON
	Detail    string       `json:"detail"`
	Link      string       `json:"link,omitempty"`
	NewTab    bool         `json:"newTab,omitempty"`
	Shape     []vec2JSON   `json:"shape,omitempty"`
	ShapeMinY coord        `json:"shapeMinY"`
	ShapeMaxY coord        `json:"shapeMaxY"`
	Holes     [][]vec2JSON `json:"holes,omitempty"`
	DepthTest bool         `json:"depthTest"`
	LineWidth int          `json:"lineWidth"`
	LineColor *colorJSON   `json:"lineColor,omitempty"`
	FillColor *colorJSON   `json:"fillColor,omitempty"`
}

type lineJSON struct {
	baseJSON
	Detail    string     `json:"detail"`
	Link      string     `json:"link,omitempty"`
	NewTab    bool       `json:"newTab,omitempty"`
	Line      []vec3JSON `json:"line,omitempty"`
	DepthTest bool       `json:"depthTest"`
	LineWidth int        `json:"lineWidth"`
	LineColor *colorJSON `json:"lineColor,omitempty"`
}

// Encode serializes a marker to its JSON object form, dispatching on
// the concrete variant.
func Encode(m Marker) ([]byte, error) {
	switch v := m.(type) {
	case *HTMLMarker:
		return json.Marshal(encodeHTML(v))
	case *POIMarker:
		return json.Marshal(encodePOI(v))
	case *ShapeMarker:
		return json.Marshal(encodeShape(v))
	case *ExtrudeMarker:
		return json.Marshal(encodeExtrude(v))
	case *LineMarker:
		return json.Marshal(encodeLine(v))
	default:
		return nil, fmt.Errorf("marker: cannot encode %T", m)
	}
}

// Decode parses a single marker JSON object, selecting the variant
// schema by the "type" discriminator. An unrecognized discriminator is
// a hard failure; unknown keys within a known object are skipped.
func Decode(data []byte) (Marker, error) {
	var probe struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ParseError{Msg: "malformed marker", Err: err}
	}
	if probe.Type == nil {
		return nil, &ParseError{Msg: `missing "type" discriminator`}
	}

	// The DTOs start out with the same defaults the constructors apply,
	// so fields absent from the document keep their default value.
	switch Type(*probe.Type) {
	case TypeHTML:
		dto := htmlJSON{baseJSON: defaultBaseJSON(TypeHTML)}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, &ParseError{Msg: "decoding html-marker", Err: err}
		}
		return decodeHTML(&dto), nil
	case TypePOI:
		dto := poiJSON{
			baseJSON: defaultBaseJSON(TypePOI),
			Icon:     DefaultPOIIcon,
			Anchor:   geom.Vec2i{X: 25, Y: 45},
		}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, &ParseError{Msg: "decoding poi-marker", Err: err}
		}
		return decodePOI(&dto), nil
	case TypeShape:
		dto := shapeJSON{baseJSON: defaultBaseJSON(TypeShape), DepthTest: true, LineWidth: 2}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, &ParseError{Msg: "decoding shape-marker", Err: err}
		}
		return decodeShape(&dto)
	case TypeExtrude:
		dto := extrudeJSON{baseJSON: defaultBaseJSON(TypeExtrude), DepthTest: true, LineWidth: 2}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, &ParseError{Msg: "decoding extrude-marker", Err: err}
		}
		return decodeExtrude(&dto)
	case TypeLine:
		dto := lineJSON{baseJSON: defaultBaseJSON(TypeLine), DepthTest: true, LineWidth: 2}
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, &ParseError{Msg: "decoding line-marker", Err: err}
		}
		return decodeLine(&dto)
	default:
		return nil, &UnknownTypeError{Tag: *probe.Type}
	}
}

func defaultBaseJSON(typ Type) baseJSON {
	return baseJSON{
		Type:        typ,
		Listed:      true,
		MaxDistance: coord(defaultMaxDistance),
	}
}

func (m *HTMLMarker) MarshalJSON() ([]byte, error)    { return json.Marshal(encodeHTML(m)) }
func (m *POIMarker) MarshalJSON() ([]byte, error)     { return json.Marshal(encodePOI(m)) }
func (m *ShapeMarker) MarshalJSON() ([]byte, error)   { return json.Marshal(encodeShape(m)) }
func (m *ExtrudeMarker) MarshalJSON() ([]byte, error) { return json.Marshal(encodeExtrude(m)) }
func (m *LineMarker) MarshalJSON() ([]byte, error)    { return json.Marshal(encodeLine(m)) }

func encodeBase(typ Type, b *Base) baseJSON {
	return baseJSON{
		Type:        typ,
		Label:       b.label,
		Position:    encodeVec3(b.Position),
		Sorting:     b.Sorting,
		Listed:      b.Listed,
		MinDistance: coord(b.MinDistance),
		MaxDistance: coord(b.MaxDistance),
	}
}

func decodeBase(dto *baseJSON) Base {
	// The label was escaped when it was set; assign it verbatim so a
	// round trip cannot double-escape entities.
	return Base{
		label:       dto.Label,
		Position:    decodeVec3(dto.Position),
		Sorting:     dto.Sorting,
		Listed:      dto.Listed,
		MinDistance: float64(dto.MinDistance),
		MaxDistance: float64(dto.MaxDistance),
	}
}

func encodeHTML(m *HTMLMarker) *htmlJSON {
	return &htmlJSON{
		baseJSON: encodeBase(TypeHTML, &m.Base),
		HTML:     m.HTML,
		Anchor:   m.Anchor,
		Classes:  m.classes,
	}
}

func decodeHTML(dto *htmlJSON) *HTMLMarker {
	return &HTMLMarker{
		Base:    decodeBase(&dto.baseJSON),
		HTML:    dto.HTML,
		Anchor:  dto.Anchor,
		classes: dto.Classes,
	}
}

func encodePOI(m *POIMarker) *poiJSON {
	return &poiJSON{
		baseJSON: encodeBase(TypePOI, &m.Base),
		Detail:   m.Detail,
		Icon:     m.Icon,
		Anchor:   m.Anchor,
		Scale:    m.Scale,
		Filter:   m.Filter,
		Classes:  m.classes,
	}
}

func decodePOI(dto *poiJSON) *POIMarker {
	return &POIMarker{
		Base:    decodeBase(&dto.baseJSON),
		Detail:  dto.Detail,
		Icon:    dto.Icon,
		Anchor:  dto.Anchor,
		Scale:   dto.Scale,
		Filter:  dto.Filter,
		classes: dto.Classes,
	}
}

func encodeShape(m *ShapeMarker) *shapeJSON {
	return &shapeJSON{
		baseJSON:  encodeBase(TypeShape, &m.Base),
		Detail:    m.Detail.Detail,
		Link:      m.Link,
		NewTab:    m.NewTab,
		Shape:     encodeShapePoints(m.Shape),
		ShapeY:    coord(m.ShapeY),
		Holes:     encodeHoles(m.Holes),
		DepthTest: m.DepthTest,
		LineWidth: m.LineWidth,
		LineColor: encodeColor(m.LineColor),
		FillColor: encodeColor(m.FillColor),
	}
}

func decodeShape(dto *shapeJSON) (*ShapeMarker, error) {
	shape, err := decodeShapePoints(dto.Shape)
	if err != nil {
		return nil, err
	}
	holes, err := decodeHoles(dto.Holes)
	if err != nil {
		return nil, err
	}
	return &ShapeMarker{
		Base:      decodeBase(&dto.baseJSON),
		Detail:    Detail{Detail: dto.Detail, Link: dto.Link, NewTab: dto.NewTab},
		Shape:     shape,
		ShapeY:    float64(dto.ShapeY),
		Holes:     holes,
		DepthTest: dto.DepthTest,
		LineWidth: dto.LineWidth,
		LineColor: decodeColor(dto.LineColor),
		FillColor: decodeColor(dto.FillColor),
	}, nil
}

func encodeExtrude(m *ExtrudeMarker) *extrudeJSON {
	return &extrudeJSON{
		baseJSON:  encodeBase(TypeExtrude, &m.Base),
		Detail:    m.Detail.Detail,
		Link:      m.Link,
		NewTab:    m.NewTab,
		Shape:     encodeShapePoints(m.Shape),
		ShapeMinY: coord(m.ShapeMinY),
		ShapeMaxY: coord(m.ShapeMaxY),
		Holes:     encodeHoles(m.Holes),
		DepthTest: m.DepthTest,
		LineWidth: m.LineWidth,
		LineColor: encodeColor(m.LineColor),
		FillColor: encodeColor(m.FillColor),
	}
}

func decodeExtrude(dto *extrudeJSON) (*ExtrudeMarker, error) {
	shape, err := decodeShapePoints(dto.Shape)
	if err != nil {
		return nil, err
	}
	holes, err := decodeHoles(dto.Holes)
	if err != nil {
		return nil, err
	}
	return &ExtrudeMarker{
		Base:      decodeBase(&dto.baseJSON),
		Detail:    Detail{Detail: dto.Detail, Link: dto.Link, NewTab: dto.NewTab},
		Shape:     shape,
		ShapeMinY: float64(dto.ShapeMinY),
		ShapeMaxY: float64(dto.ShapeMaxY),
		Holes:     holes,
		DepthTest: dto.DepthTest,
		LineWidth: dto.LineWidth,
		LineColor: decodeColor(dto.LineColor),
		FillColor: decodeColor(dto.FillColor),
	}, nil
}

func encodeLine(m *LineMarker) *lineJSON {
	return &lineJSON{
		baseJSON:  encodeBase(TypeLine, &m.Base),
		Detail:    m.Detail.Detail,
		Link:      m.Link,
		NewTab:    m.NewTab,
		Line:      encodeLinePoints(m.Line),
		DepthTest: m.DepthTest,
		LineWidth: m.LineWidth,
		LineColor: encodeColor(m.LineColor),
	}
}

func decodeLine(dto *lineJSON) (*LineMarker, error) {
	line, err := decodeLinePoints(dto.Line)
	if err != nil {
		return nil, err
	}
	return &LineMarker{
		Base:      decodeBase(&dto.baseJSON),
		Detail:    Detail{Detail: dto.Detail, Link: dto.Link, NewTab: dto.NewTab},
		Line:      line,
		DepthTest: dto.DepthTest,
		LineWidth: dto.LineWidth,
		LineColor: decodeColor(dto.LineColor),
	}, nil
}

func encodeVec3(v geom.Vec3) vec3JSON {
	return vec3JSON{X: coord(v.X), Y: coord(v.Y), Z: coord(v.Z)}
}

func decodeVec3(v vec3JSON) geom.Vec3 {
	return geom.Vec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func encodeColor(c *geom.Color) *colorJSON {
	if c == nil {
		return nil
	}
	return &colorJSON{R: int(c.R), G: int(c.G), B: int(c.B), A: c.A}
}

func decodeColor(c *colorJSON) *geom.Color {
	if c == nil {
		return nil
	}
	col := geom.NewColor(uint8(c.R), uint8(c.G), uint8(c.B), c.A)
	return &col
}

func encodeShapePoints(s *geom.Shape) []vec2JSON {
	if s == nil {
		return nil
	}
	pts := make([]vec2JSON, s.PointCount())
	for i := range pts {
		p := s.Point(i)
		pts[i] = vec2JSON{X: coord(p.X), Z: coord(p.Z)}
	}
	return pts
}

func decodeShapePoints(pts []vec2JSON) (*geom.Shape, error) {
	if pts == nil {
		return nil, nil
	}
	points := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		points[i] = geom.Vec2{X: float64(p.X), Z: float64(p.Z)}
	}
	s, err := geom.NewShape(points...)
	if err != nil {
		return nil, &ParseError{Msg: "decoding shape", Err: err}
	}
	return s, nil
}

func encodeHoles(holes []*geom.Shape) [][]vec2JSON {
	if len(holes) == 0 {
		return nil
	}
	out := make([][]vec2JSON, len(holes))
	for i, h := range holes {
		out[i] = encodeShapePoints(h)
	}
	return out
}

func decodeHoles(holes [][]vec2JSON) ([]*geom.Shape, error) {
	if len(holes) == 0 {
		return nil, nil
	}
	out := make([]*geom.Shape, len(holes))
	for i, h := range holes {
		s, err := decodeShapePoints(h)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func encodeLinePoints(l *geom.Line) []vec3JSON {
	if l == nil {
		return nil
	}
	pts := make([]vec3JSON, l.PointCount())
	for i := range pts {
		pts[i] = encodeVec3(l.Point(i))
	}
	return pts
}

func decodeLinePoints(pts []vec3JSON) (*geom.Line, error) {
	if pts == nil {
		return nil, nil
	}
	points := make([]geom.Vec3, len(pts))
	for i, p := range pts {
		points[i] = decodeVec3(p)
	}
	l, err := geom.NewLine(points...)
	if err != nil {
		return nil, &ParseError{Msg: "decoding line", Err: err}
	}
	return l, nil
}

type setJSON struct {
	Label         string                     `json:"label"`
	Toggleable    bool                       `json:"toggleable"`
	DefaultHidden bool                       `json:"defaultHidden"`
	Sorting       int                        `json:"sorting"`
	Markers       map[string]json.RawMessage `json:"markers"`
}

// MarshalJSON serializes the set together with its marker map.
func (s *Set) MarshalJSON() ([]byte, error) {
	markers := s.Markers()
	raw := make(map[string]json.RawMessage, len(markers))
	for key, m := range markers {
		b, err := Encode(m)
		if err != nil {
			return nil, fmt.Errorf("marker: encoding marker %q: %w", key, err)
		}
		raw[key] = b
	}
	return json.Marshal(setJSON{
		Label:         s.Label,
		Toggleable:    s.Toggleable,
		DefaultHidden: s.DefaultHidden,
		Sorting:       s.Sorting,
		Markers:       raw,
	})
}

// UnmarshalJSON parses a set and all contained markers.
func (s *Set) UnmarshalJSON(data []byte) error {
	var dto setJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return &ParseError{Msg: "decoding marker-set", Err: err}
	}
	markers := make(map[string]Marker, len(dto.Markers))
	for key, raw := range dto.Markers {
		m, err := Decode(raw)
		if err != nil {
			return err
		}
		markers[key] = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Label = dto.Label
	s.Toggleable = dto.Toggleable
	s.DefaultHidden = dto.DefaultHidden
	s.Sorting = dto.Sorting
	s.markers = markers
	return nil
}

// WriteDocument writes the marker document consumed by the web app: a
// JSON object mapping set ids to marker sets.
func WriteDocument(w io.Writer, sets map[string]*Set) error {
	return json.NewEncoder(w).Encode(sets)
}

// ReadDocument parses a marker document previously written by
// WriteDocument.
func ReadDocument(r io.Reader) (map[string]*Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("marker: reading document: %w", err)
	}
	sets := make(map[string]*Set)
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}
