package led

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Color is an 8-bit RGB triple in wire order.
type Color struct{ R, G, B uint8 }

var (
	Black = Color{}
	White = Color{255, 255, 255}
)

// HSV converts an 8-bit hue/saturation/value triple into RGB. Hue wraps at 256
// so that a full turn of the colour wheel fits a byte.
func HSV(h, s, v uint8) Color {
	c := colorful.Hsv(float64(h)*360.0/256.0, float64(s)/255.0, float64(v)/255.0)
	r, g, b := c.Clamped().RGB255()
	return Color{r, g, b}
}

// ParseHex parses "#rrggbb" colors as used in the config file.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Black, errors.Wrapf(err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, nil
}

// Scale dims the color by b/256, keeping any lit channel lit.
func (c Color) Scale(b uint8) Color {
	return Color{scaleVideo(c.R, b), scaleVideo(c.G, b), scaleVideo(c.B, b)}
}

// FadeToBlackBy dims the color by amount/256. Channels may reach zero.
func (c Color) FadeToBlackBy(amount uint8) Color {
	keep := 255 - amount
	return Color{scale(c.R, keep), scale(c.G, keep), scale(c.B, keep)}
}

// Blend moves the color toward o by amount/255.
func (c Color) Blend(o Color, amount uint8) Color {
	return Color{lerp(c.R, o.R, amount), lerp(c.G, o.G, amount), lerp(c.B, o.B, amount)}
}

func scale(v, s uint8) uint8 {
	return uint8((uint16(v) * (uint16(s) + 1)) >> 8)
}

func scaleVideo(v, s uint8) uint8 {
	out := uint8((uint16(v) * uint16(s)) >> 8)
	if v != 0 && s != 0 {
		out++
	}
	return out
}

func lerp(a, b, amount uint8) uint8 {
	return uint8(int(a) + (int(b)-int(a))*int(amount)/255)
}
