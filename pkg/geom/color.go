package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an RGBA color with 8-bit channels and a floating alpha in [0,1].
type Color struct {
	R uint8
	G uint8
	B uint8
	A float64
}

// NewColor creates a color from its channel values. Alpha is clamped to [0,1].
func NewColor(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: math.Min(math.Max(a, 0), 1)}
}

// ColorFromARGB unpacks a 0xAARRGGBB integer into a Color.
func ColorFromARGB(argb uint32) Color {
	return Color{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: float64(uint8(argb>>24)) / 255,
	}
}

// ARGB packs the color back into 0xAARRGGBB form. Round-tripping through
// ARGB reproduces the same channel values (alpha within 1/255 precision).
func (c Color) ARGB() uint32 {
	a := uint32(math.Round(c.A * 255))
	return a<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ParseColor parses a CSS-style hex color string: #rgb, #rgba, #rrggbb or
// #rrggbbaa. Shorthand digits are doubled, a missing alpha means fully
// opaque. A plain decimal string is read as a packed ARGB integer.
func ParseColor(s string) (Color, error) {
	if strings.HasPrefix(s, "#") {
		val := s[1:]
		switch len(val) {
		case 3:
			val += "f"
			fallthrough
		case 4:
			var sb strings.Builder
			for _, ch := range val {
				sb.WriteRune(ch)
				sb.WriteRune(ch)
			}
			val = sb.String()
		case 6:
			val += "ff"
		}
		if len(val) != 8 {
			return Color{}, fmt.Errorf("invalid color format: %q", s)
		}
		// stored as rrggbbaa, packed form is aarrggbb
		rgb, err := strconv.ParseUint(val[:6], 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color format: %q", s)
		}
		alpha, err := strconv.ParseUint(val[6:], 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color format: %q", s)
		}
		return ColorFromARGB(uint32(alpha)<<24 | uint32(rgb)), nil
	}

	packed, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color format: %q", s)
	}
	return ColorFromARGB(uint32(packed)), nil
}

func (c Color) String() string {
	return fmt.Sprintf("Color{r=%d, g=%d, b=%d, a=%g}", c.R, c.G, c.B, c.A)
}
