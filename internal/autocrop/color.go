package autocrop

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is an 8-bit-per-channel colour.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// DefaultFallbackColor is the neutral light grey used when no margin colour
// could be sampled and the caller supplied none.
var DefaultFallbackColor = RGBColor{R: 240, G: 240, B: 240}

// Distance returns the Euclidean distance between two colours over the
// three channels. It is the only similarity test used by the scanner, so
// the result is symmetric and Distance(a, a) is 0.
func Distance(a, b RGBColor) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Within reports whether c lies within tolerance of ref.
func (c RGBColor) Within(ref RGBColor, tolerance uint8) bool {
	return withinTolerance(Distance(c, ref), tolerance)
}

func withinTolerance(dist float64, tolerance uint8) bool {
	return dist <= float64(tolerance)
}

// Hex formats the colour as "#rrggbb".
func (c RGBColor) Hex() string {
	return c.colorful().Hex()
}

func (c RGBColor) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// RGBA implements color.Color so an RGBColor can be drawn directly.
func (c RGBColor) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// ParseHex parses "#rrggbb" or the short "#rgb" form.
func ParseHex(s string) (RGBColor, error) {
	if len(s) > 0 && s[0] != '#' {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return RGBColor{}, fmt.Errorf("invalid colour %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// FromColor converts any color.Color, ignoring alpha.
func FromColor(c color.Color) RGBColor {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBColor{R: n.R, G: n.G, B: n.B}
}
