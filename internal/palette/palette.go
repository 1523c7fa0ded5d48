// Package palette holds the 16-entry colour palettes patterns draw from and the
// blender that walks the live palette through a rotation of gradients.
package palette

import "github.com/coreman2200/soundbars/internal/led"

// Size is the number of entries in a Palette.
const Size = 16

// Palette is a 16-entry colour table looked up with linear blending.
type Palette [Size]led.Color

// ColorAt returns the colour at index (0..255 across the palette), blended
// between neighbouring entries and scaled by brightness. The last entry blends
// back into the first.
func (p *Palette) ColorAt(index, brightness uint8) led.Color {
	hi4 := index >> 4
	lo4 := index & 0x0f

	c := p[hi4]
	if lo4 != 0 {
		next := p[(hi4+1)%Size]
		f2 := lo4 << 4
		f1 := 255 - f2
		c = led.Color{
			R: mix(c.R, next.R, f1, f2),
			G: mix(c.G, next.G, f1, f2),
			B: mix(c.B, next.B, f1, f2),
		}
	}

	if brightness != 255 {
		c = c.Scale(brightness)
	}
	return c
}

func mix(a, b, f1, f2 uint8) uint8 {
	return uint8((uint16(a)*uint16(f1))>>8 + (uint16(b)*uint16(f2))>>8)
}

// Stop is one anchor of a Gradient.
type Stop struct {
	Pos   uint8
	Color led.Color
}

// Gradient is an ordered list of stops covering positions 0..255.
type Gradient []Stop

// Palette samples the gradient at 16 evenly spaced positions.
func (g Gradient) Palette() Palette {
	var p Palette
	for i := range p {
		p[i] = g.At(uint8(i * 255 / (Size - 1)))
	}
	return p
}

// At interpolates the gradient at pos. Positions before the first stop take
// its colour, after the last stop likewise.
func (g Gradient) At(pos uint8) led.Color {
	if len(g) == 0 {
		return led.Black
	}
	if pos <= g[0].Pos {
		return g[0].Color
	}
	for i := 1; i < len(g); i++ {
		lo, hi := g[i-1], g[i]
		if pos > hi.Pos {
			continue
		}
		span := int(hi.Pos) - int(lo.Pos)
		if span == 0 {
			return hi.Color
		}
		amount := (int(pos) - int(lo.Pos)) * 255 / span
		return lo.Color.Blend(hi.Color, uint8(amount))
	}
	return g[len(g)-1].Color
}

func rgb(pos, r, g, b uint8) Stop { return Stop{pos, led.Color{R: r, G: g, B: b}} }

// Rotation gradients.
var (
	Fire = Gradient{
		rgb(0, 255, 0, 0),
		rgb(50, 139, 0, 0),
		rgb(100, 0, 0, 0),
		rgb(200, 255, 140, 0),
		rgb(255, 255, 215, 0),
	}
	TealGreenGold = Gradient{
		rgb(0, 34, 139, 34),
		rgb(85, 0, 255, 0),
		rgb(170, 255, 215, 0),
		rgb(255, 255, 140, 0),
	}
	RedRoseLavender = Gradient{
		rgb(0, 128, 0, 0),
		rgb(85, 210, 105, 30),
		rgb(170, 255, 127, 80),
		rgb(255, 230, 230, 250),
	}
	Ice = Gradient{
		rgb(0, 224, 240, 255),
		rgb(127, 31, 147, 255),
		rgb(255, 48, 64, 72),
	}
	Fairy = Gradient{
		rgb(0, 63, 57, 11),
		rgb(127, 127, 114, 22),
		rgb(224, 255, 227, 45),
		rgb(255, 255, 255, 255),
	}
)

// Bar style gradients.
var (
	Purple = Gradient{
		rgb(0, 0, 212, 255),
		rgb(255, 179, 0, 255),
	}
	Outrun = Gradient{
		rgb(0, 141, 0, 100),
		rgb(127, 255, 192, 0),
		rgb(255, 0, 5, 255),
	}
	Heat = Gradient{
		rgb(0, 200, 200, 200),
		rgb(64, 255, 218, 0),
		rgb(128, 231, 0, 0),
		rgb(192, 255, 218, 0),
		rgb(255, 200, 200, 200),
	}
	Rainbow = Gradient{
		rgb(0, 255, 0, 0),
		rgb(42, 171, 85, 0),
		rgb(85, 171, 171, 0),
		rgb(128, 0, 255, 0),
		rgb(170, 0, 0, 255),
		rgb(212, 85, 0, 171),
		rgb(255, 255, 0, 0),
	}
)

var named = map[string]Gradient{
	"fire":            Fire,
	"tealGreenGold":   TealGreenGold,
	"redRoseLavender": RedRoseLavender,
	"ice":             Ice,
	"fairy":           Fairy,
	"purple":          Purple,
	"outrun":          Outrun,
	"heat":            Heat,
	"rainbow":         Rainbow,
}

// Lookup returns the built-in gradient called name.
func Lookup(name string) (Gradient, bool) {
	g, ok := named[name]
	return g, ok
}

// Names lists the built-in gradient names accepted by Lookup.
func Names() []string {
	return []string{"fire", "tealGreenGold", "redRoseLavender", "ice", "fairy", "purple", "outrun", "heat", "rainbow"}
}
