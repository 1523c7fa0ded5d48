package led

import (
	"image"
	"image/color"

	"periph.io/x/extra/devices/screen"
)

type drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Console prints the strip on the terminal. It is the fallback when no SPI
// port can be found.
type Console struct {
	drawer drawer
	img    *image.NRGBA
}

// NewConsole creates a console sink for n LEDs.
func NewConsole(n int) *Console {
	return &Console{
		drawer: screen.New(n),
		img:    image.NewNRGBA(image.Rect(0, 0, n, 1)),
	}
}

func (c *Console) Write(rgb []byte) error {
	for x := 0; x < c.img.Rect.Max.X && 3*x+2 < len(rgb); x++ {
		c.img.SetNRGBA(x, 0, color.NRGBA{R: rgb[3*x], G: rgb[3*x+1], B: rgb[3*x+2], A: 255})
	}
	return c.drawer.Draw(c.drawer.Bounds(), c.img, image.Point{})
}

func (c *Console) Close() error { return c.drawer.Halt() }
